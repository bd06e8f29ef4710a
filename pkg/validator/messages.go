package validator

import "fmt"

// MessageKey 错误消息键，格式为 "分组.名称"
// 违反哪条规则返回哪个键是稳定契约，键对应的文案可以随时调整
type MessageKey string

// 课程信息
const (
	MsgCourseNameRequired      MessageKey = "COURSE_INFORMATION.COURSE_NAME_REQUIRED"
	MsgCourseNameMinLength     MessageKey = "COURSE_INFORMATION.COURSE_NAME_MIN_LENGTH"
	MsgCourseNameMaxLength     MessageKey = "COURSE_INFORMATION.COURSE_NAME_MAX_LENGTH"
	MsgTitleRequired           MessageKey = "COURSE_INFORMATION.TITLE_REQUIRED"
	MsgTitleMinLength          MessageKey = "COURSE_INFORMATION.TITLE_MIN_LENGTH"
	MsgTitleMaxLength          MessageKey = "COURSE_INFORMATION.TITLE_MAX_LENGTH"
	MsgCourseCardTitleRequired MessageKey = "COURSE_INFORMATION.COURSE_CARD_TITLE_REQUIRED"
	MsgCourseCardTitleMaxLen   MessageKey = "COURSE_INFORMATION.COURSE_CARD_TITLE_MAX_LENGTH"
	MsgOneLineDescRequired     MessageKey = "COURSE_INFORMATION.ONE_LINE_DESC_REQUIRED"
	MsgOneLineDescMinLength    MessageKey = "COURSE_INFORMATION.ONE_LINE_DESC_MIN_LENGTH"
	MsgOneLineDescMaxLength    MessageKey = "COURSE_INFORMATION.ONE_LINE_DESC_MAX_LENGTH"
	MsgShortDescMaxLength      MessageKey = "COURSE_INFORMATION.SHORT_DESC_MAX_LENGTH"
	MsgDescriptionMinLength    MessageKey = "COURSE_INFORMATION.DESCRIPTION_MIN_LENGTH"
	MsgDescriptionMaxLength    MessageKey = "COURSE_INFORMATION.DESCRIPTION_MAX_LENGTH"
	MsgCategoryRequired        MessageKey = "COURSE_INFORMATION.CATEGORY_REQUIRED"
	MsgCourseTypeRequired      MessageKey = "COURSE_INFORMATION.COURSE_TYPE_REQUIRED"
)

// 视觉素材
const (
	MsgBannerRequired           MessageKey = "VISUAL_ASSETS.BANNER_REQUIRED"
	MsgBannerMaxLength          MessageKey = "VISUAL_ASSETS.BANNER_MAX_LENGTH"
	MsgBannerAltRequired        MessageKey = "VISUAL_ASSETS.BANNER_ALT_REQUIRED"
	MsgBannerAltMaxLength       MessageKey = "VISUAL_ASSETS.BANNER_ALT_MAX_LENGTH"
	MsgThumbnailWebMaxLength    MessageKey = "VISUAL_ASSETS.THUMBNAIL_WEB_MAX_LENGTH"
	MsgThumbnailMobileMaxLength MessageKey = "VISUAL_ASSETS.THUMBNAIL_MOBILE_MAX_LENGTH"
	MsgDemoURLRequired          MessageKey = "VISUAL_ASSETS.DEMO_URL_REQUIRED"
	MsgDemoURLMaxLength         MessageKey = "VISUAL_ASSETS.DEMO_URL_MAX_LENGTH"
	MsgDemoMobileURLRequired    MessageKey = "VISUAL_ASSETS.DEMO_MOBILE_URL_REQUIRED"
	MsgDemoMobileURLMaxLength   MessageKey = "VISUAL_ASSETS.DEMO_MOBILE_URL_MAX_LENGTH"
	MsgBrochureMaxLength        MessageKey = "VISUAL_ASSETS.BROCHURE_MAX_LENGTH"
)

// 课程内容
const (
	MsgOverviewRequired        MessageKey = "COURSE_CONTENT.OVERVIEW_REQUIRED"
	MsgOverviewMaxLength       MessageKey = "COURSE_CONTENT.OVERVIEW_MAX_LENGTH"
	MsgWhatYouLearnMaxLength   MessageKey = "COURSE_CONTENT.WHAT_YOU_LEARN_MAX_LENGTH"
	MsgSummaryMaxLength        MessageKey = "COURSE_CONTENT.SUMMARY_MAX_LENGTH"
	MsgDisclosureMaxLength     MessageKey = "COURSE_CONTENT.DISCLOSURE_MAX_LENGTH"
	MsgFinancialAidMaxLength   MessageKey = "COURSE_CONTENT.FINANCIAL_AID_MAX_LENGTH"
	MsgPedagogyMaxLength       MessageKey = "COURSE_CONTENT.PEDAGOGY_MAX_LENGTH"
	MsgAlumniWorkMaxLength     MessageKey = "COURSE_CONTENT.ALUMNI_WORK_MAX_LENGTH"
)

// 课程管理
const (
	MsgDurationMaxLength         MessageKey = "ADMINISTRATION.DURATION_MAX_LENGTH"
	MsgDurationYearsInvalid      MessageKey = "ADMINISTRATION.DURATION_YEARS_INVALID"
	MsgDurationMonthsInvalid     MessageKey = "ADMINISTRATION.DURATION_MONTHS_INVALID"
	MsgDurationDaysInvalid       MessageKey = "ADMINISTRATION.DURATION_DAYS_INVALID"
	MsgEndDateBeforeStart        MessageKey = "ADMINISTRATION.END_DATE_BEFORE_START"
	MsgScheduleInvalid           MessageKey = "ADMINISTRATION.SCHEDULE_INVALID"
	MsgSpecialityTypeInvalid     MessageKey = "ADMINISTRATION.SPECIALITY_TYPE_INVALID"
	MsgVersionMaxLength          MessageKey = "ADMINISTRATION.VERSION_MAX_LENGTH"
	MsgKiteIDInvalid             MessageKey = "ADMINISTRATION.KITE_ID_INVALID"
	MsgZohoIDMaxLength           MessageKey = "ADMINISTRATION.ZOHO_ID_MAX_LENGTH"
	MsgPartnerCodeMaxLength      MessageKey = "ADMINISTRATION.PARTNER_CODE_MAX_LENGTH"
	MsgWeekDaysInvalid           MessageKey = "ADMINISTRATION.WEEK_DAYS_INVALID"
)

// 认证
const (
	MsgAccreditationMaxLength MessageKey = "ACCREDITATION.ACCREDITATION_MAX_LENGTH"
)

// 数据与访问控制
const (
	MsgRatingInvalid            MessageKey = "ANALYTICS.RATING_INVALID"
	MsgRatingDecimalInvalid     MessageKey = "ANALYTICS.RATING_DECIMAL_INVALID"
	MsgRatingCountInvalid       MessageKey = "ANALYTICS.RATING_COUNT_INVALID"
	MsgActiveLearnersInvalid    MessageKey = "ANALYTICS.ACTIVE_LEARNERS_INVALID"
	MsgCPDPointsInvalid         MessageKey = "ANALYTICS.CPD_POINTS_INVALID"
	MsgContactProgramsRequired  MessageKey = "ANALYTICS.CONTACT_PROGRAMS_REQUIRED"
	MsgKYCRequiredField         MessageKey = "ANALYTICS.KYC_REQUIRED_FIELD"
	MsgPreferredCourseRequired  MessageKey = "ANALYTICS.PREFERRED_COURSE_REQUIRED"
	MsgIndexTagRequired         MessageKey = "ANALYTICS.INDEX_TAG_REQUIRED"
	MsgNoPriceRequired          MessageKey = "ANALYTICS.NO_PRICE_REQUIRED"
)

// 价格
const (
	MsgPriceRequired             MessageKey = "PRICING.PRICE_REQUIRED"
	MsgPriceInvalid              MessageKey = "PRICING.PRICE_INVALID"
	MsgPriceNegative             MessageKey = "PRICING.PRICE_NEGATIVE"
	MsgFuturePriceInvalid        MessageKey = "PRICING.FUTURE_PRICE_INVALID"
	MsgFuturePriceNegative       MessageKey = "PRICING.FUTURE_PRICE_NEGATIVE"
	MsgExtendedPriceInvalid      MessageKey = "PRICING.EXTENDED_PRICE_INVALID"
	MsgExtendedPriceNegative     MessageKey = "PRICING.EXTENDED_PRICE_NEGATIVE"
	MsgMajorUpdatePriceInvalid   MessageKey = "PRICING.MAJOR_UPDATE_PRICE_INVALID"
	MsgMajorUpdatePriceNegative  MessageKey = "PRICING.MAJOR_UPDATE_PRICE_NEGATIVE"
)

// SEO
const (
	MsgSEOTitleMaxLength       MessageKey = "SEO.SEO_TITLE_MAX_LENGTH"
	MsgSEODescriptionMaxLength MessageKey = "SEO.SEO_DESCRIPTION_MAX_LENGTH"
	MsgSEOURLInvalid           MessageKey = "SEO.SEO_URL_INVALID"
	MsgSEOURLMaxLength         MessageKey = "SEO.SEO_URL_MAX_LENGTH"
	MsgSEMURLInvalid           MessageKey = "SEO.SEM_URL_INVALID"
	MsgSEMURLMaxLength         MessageKey = "SEO.SEM_URL_MAX_LENGTH"
)

// 讲师 / 赞助人
const (
	MsgPatronNameRequired        MessageKey = "PATRON.NAME_REQUIRED"
	MsgPatronNameMinLength       MessageKey = "PATRON.NAME_MIN_LENGTH"
	MsgPatronNameMaxLength       MessageKey = "PATRON.NAME_MAX_LENGTH"
	MsgPatronDesignationRequired MessageKey = "PATRON.DESIGNATION_REQUIRED"
	MsgPatronDesignationMinLen   MessageKey = "PATRON.DESIGNATION_MIN_LENGTH"
	MsgPatronDesignationMaxLen   MessageKey = "PATRON.DESIGNATION_MAX_LENGTH"
	MsgPatronImageRequired       MessageKey = "PATRON.IMAGE_REQUIRED"
	MsgPatronImageMaxLength      MessageKey = "PATRON.IMAGE_MAX_LENGTH"
)

// 关联实体的存在性检查
const (
	MsgFAQQuestionRequired       MessageKey = "FAQ.QUESTION_REQUIRED"
	MsgFAQAnswerRequired         MessageKey = "FAQ.ANSWER_REQUIRED"
	MsgCertificateKeyRequired    MessageKey = "CERTIFICATE.KEY_REQUIRED"
	MsgCertificateURLRequired    MessageKey = "CERTIFICATE.URL_REQUIRED"
	MsgRecommendationCourseEmpty MessageKey = "RECOMMENDATION.COURSE_REQUIRED"
	MsgRecommendationPosition    MessageKey = "RECOMMENDATION.POSITION_REQUIRED"
)

// 通用
const (
	// MsgRequired 必填规则没有指定消息时使用，文案中的 %s 替换为字段名
	MsgRequired           MessageKey = "COMMON.REQUIRED"
	MsgInvalidOption      MessageKey = "VALIDATORS.INVALID_OPTION"
	MsgInvalidDate        MessageKey = "VALIDATORS.INVALID_DATE"
	MsgInvalidURL         MessageKey = "VALIDATORS.INVALID_URL"
	MsgInvalidImageFormat MessageKey = "VALIDATORS.INVALID_IMAGE_FORMAT"
)

// messages 消息键 → 英文文案
var messages = map[MessageKey]string{
	MsgCourseNameRequired:      "Course name is required",
	MsgCourseNameMinLength:     "Course name must be at least 3 characters",
	MsgCourseNameMaxLength:     "Course name cannot exceed 255 characters",
	MsgTitleRequired:           "Course title is required",
	MsgTitleMinLength:          "Title must be at least 3 characters",
	MsgTitleMaxLength:          "Title cannot exceed 255 characters",
	MsgCourseCardTitleRequired: "Course card title is required",
	MsgCourseCardTitleMaxLen:   "Course card title cannot exceed 255 characters",
	MsgOneLineDescRequired:     "One line description is required",
	MsgOneLineDescMinLength:    "Description must be at least 10 characters",
	MsgOneLineDescMaxLength:    "Description cannot exceed 500 characters",
	MsgShortDescMaxLength:      "Short description cannot exceed 1000 characters",
	MsgDescriptionMinLength:    "Description must be at least 50 characters",
	MsgDescriptionMaxLength:    "Description cannot exceed 5000 characters",
	MsgCategoryRequired:        "Please select a category",
	MsgCourseTypeRequired:      "Please select a course type",

	MsgBannerRequired:           "Banner image is required",
	MsgBannerMaxLength:          "Banner URL cannot exceed 500 characters",
	MsgBannerAltRequired:        "Banner alt tag is required",
	MsgBannerAltMaxLength:       "Banner alt tag cannot exceed 255 characters",
	MsgThumbnailWebMaxLength:    "Web thumbnail URL cannot exceed 500 characters",
	MsgThumbnailMobileMaxLength: "Mobile thumbnail URL cannot exceed 500 characters",
	MsgDemoURLRequired:          "Course demo URL is required",
	MsgDemoURLMaxLength:         "Course demo URL cannot exceed 500 characters",
	MsgDemoMobileURLRequired:    "Course demo mobile URL is required",
	MsgDemoMobileURLMaxLength:   "Course demo mobile URL cannot exceed 500 characters",
	MsgBrochureMaxLength:        "Brochure URL cannot exceed 500 characters",

	MsgOverviewRequired:      "Overview is required",
	MsgOverviewMaxLength:     "Overview cannot exceed 5000 characters",
	MsgWhatYouLearnMaxLength: "Special features cannot exceed 5000 characters",
	MsgSummaryMaxLength:      "Summary cannot exceed 1000 characters",
	MsgDisclosureMaxLength:   "Disclosure cannot exceed 2000 characters",
	MsgFinancialAidMaxLength: "Financial aid information cannot exceed 2000 characters",
	MsgPedagogyMaxLength:     "Pedagogy cannot exceed 2000 characters",
	MsgAlumniWorkMaxLength:   "Alumni work cannot exceed 2000 characters",

	MsgDurationMaxLength:     "Duration cannot exceed 100 characters",
	MsgDurationYearsInvalid:  "Duration years must be a positive number",
	MsgDurationMonthsInvalid: "Duration months must be between 0 and 12",
	MsgDurationDaysInvalid:   "Duration days must be between 0 and 365",
	MsgEndDateBeforeStart:    "End date must be after start date",
	MsgScheduleInvalid:       "Schedule must be one of: daily, weekly, monthly, yearly",
	MsgSpecialityTypeInvalid: "Speciality type must be one of: doctors, nurses, others",
	MsgVersionMaxLength:      "Version cannot exceed 100 characters",
	MsgKiteIDInvalid:         "Kite ID must be a number",
	MsgZohoIDMaxLength:       "Zoho ID cannot exceed 100 characters",
	MsgPartnerCodeMaxLength:  "Partner course code cannot exceed 100 characters",
	MsgWeekDaysInvalid:       "Week days must be comma-separated weekday names",

	MsgAccreditationMaxLength: "Accreditation cannot exceed 2000 characters",

	MsgRatingInvalid:           "Rating must be between 0 and 5",
	MsgRatingDecimalInvalid:    "Rating can have at most 2 decimal places",
	MsgRatingCountInvalid:      "Rating count must be a positive number",
	MsgActiveLearnersInvalid:   "Active learners must be a positive number",
	MsgCPDPointsInvalid:        "CPD points must be a positive number",
	MsgContactProgramsRequired: "Please select contact program option",
	MsgKYCRequiredField:        "Please select KYC requirement",
	MsgPreferredCourseRequired: "Please select preferred course option",
	MsgIndexTagRequired:        "Please select index tag option",
	MsgNoPriceRequired:         "Please select pricing option",

	MsgPriceRequired:            "Price is required",
	MsgPriceInvalid:             "Price must be a valid number",
	MsgPriceNegative:            "Price cannot be negative",
	MsgFuturePriceInvalid:       "Future price must be a valid number",
	MsgFuturePriceNegative:      "Future price cannot be negative",
	MsgExtendedPriceInvalid:     "Extended validity price must be a valid number",
	MsgExtendedPriceNegative:    "Extended validity price cannot be negative",
	MsgMajorUpdatePriceInvalid:  "Major update price must be a valid number",
	MsgMajorUpdatePriceNegative: "Major update price cannot be negative",

	MsgSEOTitleMaxLength:       "SEO title cannot exceed 255 characters",
	MsgSEODescriptionMaxLength: "SEO description cannot exceed 500 characters",
	MsgSEOURLInvalid:           "SEO URL format is invalid (use lowercase letters, numbers, and hyphens only)",
	MsgSEOURLMaxLength:         "SEO URL cannot exceed 255 characters",
	MsgSEMURLInvalid:           "SEM URL format is invalid (use lowercase letters, numbers, and hyphens only)",
	MsgSEMURLMaxLength:         "SEM URL cannot exceed 255 characters",

	MsgPatronNameRequired:        "Patron name is required",
	MsgPatronNameMinLength:       "Patron name must be at least 2 characters",
	MsgPatronNameMaxLength:       "Patron name cannot exceed 255 characters",
	MsgPatronDesignationRequired: "Designation is required",
	MsgPatronDesignationMinLen:   "Designation must be at least 2 characters",
	MsgPatronDesignationMaxLen:   "Designation cannot exceed 255 characters",
	MsgPatronImageRequired:       "Image URL is required",
	MsgPatronImageMaxLength:      "Image URL cannot exceed 500 characters",

	MsgFAQQuestionRequired:       "Question is required",
	MsgFAQAnswerRequired:         "Answer is required",
	MsgCertificateKeyRequired:    "Certificate type is required",
	MsgCertificateURLRequired:    "Certificate URL is required",
	MsgRecommendationCourseEmpty: "Please select a course",
	MsgRecommendationPosition:    "Position is required",

	MsgRequired:           "%s is required",
	MsgInvalidOption:      "Please select a valid option",
	MsgInvalidDate:        "Must be a valid date",
	MsgInvalidURL:         "Must be a valid URL",
	MsgInvalidImageFormat: "Must be a valid image format",
}

// Text 返回消息键对应的文案
// MsgRequired 会把字段名填入文案；未登记的键原样返回，便于排查遗漏
func Text(key MessageKey, field string) string {
	text, ok := messages[key]
	if !ok {
		return string(key)
	}
	if key == MsgRequired {
		return fmt.Sprintf(text, field)
	}
	return text
}

// Keys 返回所有已登记的消息键
func Keys() []MessageKey {
	keys := make([]MessageKey, 0, len(messages))
	for k := range messages {
		keys = append(keys, k)
	}
	return keys
}
