package validator

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"katydid-course-admin/pkg/form"
)

// 常用正则
var (
	// PatternImageURL 以 http(s):// 开头或以 /xxx 结尾的图片地址，扩展名不区分大小写
	PatternImageURL = regexp.MustCompile(`(?i)^(https?://.*\.(jpg|jpeg|png|gif|webp))|(/.*\.(jpg|jpeg|png|gif|webp))$`)
	PatternHTTPURL  = regexp.MustCompile(`^https?://.+`)
	PatternSEOURL   = regexp.MustCompile(`^[a-z0-9-]*$`)
	// PatternNumber 允许空串的非负整数
	PatternNumber         = regexp.MustCompile(`^[0-9]*$`)
	PatternPositiveNumber = regexp.MustCompile(`^[0-9]+$`)
	// PatternDecimal 最多两位小数
	PatternDecimal = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

var (
	weekdays        = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	schedules       = []string{"daily", "weekly", "monthly", "yearly"}
	specialityTypes = []string{"doctors", "nurses", "others"}
)

// ============================================================================
// 自定义检查
// ============================================================================

// ValidID 下拉选项的 ID：必须为真值且能转换为数值
func ValidID(raw any) MessageKey {
	if !form.Truthy(raw) || math.IsNaN(form.ToNumber(raw)) {
		return MsgInvalidOption
	}
	return ""
}

// ValidDate 字符串必须能解析为日期，非字符串不检查
func ValidDate(raw any) MessageKey {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	if _, err := ParseDate(s); err != nil {
		return MsgInvalidDate
	}
	return ""
}

// ValidURL 字符串必须以 http:// 或 https:// 开头
func ValidURL(raw any) MessageKey {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	if !PatternHTTPURL.MatchString(s) {
		return MsgInvalidURL
	}
	return ""
}

// ImageFormat 字符串必须是常见图片格式的地址
func ImageFormat(raw any) MessageKey {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	if !PatternImageURL.MatchString(s) {
		return MsgInvalidImageFormat
	}
	return ""
}

// Rating 评分在 0 到 5 之间，且最多两位小数
func Rating(raw any) MessageKey {
	if !form.Truthy(raw) {
		return ""
	}
	n := form.ToNumber(raw)
	if math.IsNaN(n) || n < 0 || n > 5 {
		return MsgRatingInvalid
	}
	s := form.ToString(raw)
	if _, decimals, found := strings.Cut(s, "."); found {
		// 只看第一个小数点到第二个小数点之间的部分
		decimals, _, _ = strings.Cut(decimals, ".")
		if len(decimals) > 2 {
			return MsgRatingDecimalInvalid
		}
	}
	return ""
}

// WeekDays 逗号分隔的星期名称，不区分大小写
func WeekDays(raw any) MessageKey {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	for _, part := range strings.Split(s, ",") {
		if !slices.Contains(weekdays, strings.ToLower(strings.TrimSpace(part))) {
			return MsgWeekDaysInvalid
		}
	}
	return ""
}

// Schedule 排期类型枚举
func Schedule(raw any) MessageKey {
	return oneOf(raw, schedules, MsgScheduleInvalid)
}

// SpecialityType 专业类型枚举
func SpecialityType(raw any) MessageKey {
	return oneOf(raw, specialityTypes, MsgSpecialityTypeInvalid)
}

func oneOf(raw any, allowed []string, msg MessageKey) MessageKey {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	if !slices.Contains(allowed, strings.ToLower(s)) {
		return msg
	}
	return ""
}

// ============================================================================
// 默认规则表
// ============================================================================

// DefaultRules 返回课程表单的完整规则表，每次调用返回新的表
func DefaultRules() RuleTable {
	return RuleTable{
		// 课程信息
		"course_name": {
			Required:  required(MsgCourseNameRequired),
			MinLength: minLength(3, MsgCourseNameMinLength),
			MaxLength: maxLength(255, MsgCourseNameMaxLength),
		},
		"title": {
			Required:  required(MsgTitleRequired),
			MinLength: minLength(3, MsgTitleMinLength),
			MaxLength: maxLength(255, MsgTitleMaxLength),
		},
		"course_card_title": {
			Required:  required(MsgCourseCardTitleRequired),
			MaxLength: maxLength(255, MsgCourseCardTitleMaxLen),
		},
		"one_line_description": {
			Required:  required(MsgOneLineDescRequired),
			MinLength: minLength(10, MsgOneLineDescMinLength),
			MaxLength: maxLength(500, MsgOneLineDescMaxLength),
		},
		"short_description": {
			MaxLength: maxLength(1000, MsgShortDescMaxLength),
		},
		"description": {
			MinLength: minLength(50, MsgDescriptionMinLength),
			MaxLength: maxLength(5000, MsgDescriptionMaxLength),
		},
		"category_id": {
			Required: required(MsgCategoryRequired),
			Custom:   ValidID,
		},
		"course_type_id": {
			Required: required(MsgCourseTypeRequired),
			Custom:   ValidID,
		},

		// 视觉素材
		"banner": {
			Required:  required(MsgBannerRequired),
			MaxLength: maxLength(500, MsgBannerMaxLength),
			Custom:    ImageFormat,
		},
		"banner_alt_tag": {
			Required:  required(MsgBannerAltRequired),
			MaxLength: maxLength(255, MsgBannerAltMaxLength),
		},
		"thumbnail_web": {
			MaxLength: maxLength(500, MsgThumbnailWebMaxLength),
			Custom:    ImageFormat,
		},
		"thumbnail_mobile": {
			MaxLength: maxLength(500, MsgThumbnailMobileMaxLength),
			Custom:    ImageFormat,
		},
		"course_demo_url": {
			Required:  required(MsgDemoURLRequired),
			MaxLength: maxLength(500, MsgDemoURLMaxLength),
			Custom:    ValidURL,
		},
		"course_demo_mobile_url": {
			Required:  required(MsgDemoMobileURLRequired),
			MaxLength: maxLength(500, MsgDemoMobileURLMaxLength),
			Custom:    ValidURL,
		},
		"brochure": {
			MaxLength: maxLength(500, MsgBrochureMaxLength),
			Custom:    ValidURL,
		},

		// 课程内容
		"overview": {
			Required:  required(MsgOverviewRequired),
			MaxLength: maxLength(5000, MsgOverviewMaxLength),
		},
		"what_you_will_learn": {MaxLength: maxLength(5000, MsgWhatYouLearnMaxLength)},
		"summary":             {MaxLength: maxLength(1000, MsgSummaryMaxLength)},
		"disclosure":          {MaxLength: maxLength(2000, MsgDisclosureMaxLength)},
		"financial_aid":       {MaxLength: maxLength(2000, MsgFinancialAidMaxLength)},
		"pedagogy":            {MaxLength: maxLength(2000, MsgPedagogyMaxLength)},
		"alumni_work":         {MaxLength: maxLength(2000, MsgAlumniWorkMaxLength)},

		// 课程管理
		"duration": {MaxLength: maxLength(100, MsgDurationMaxLength)},
		"duration_years": {
			Pattern: pattern(PatternNumber, MsgDurationYearsInvalid),
			Min:     minValue(0, MsgDurationYearsInvalid),
		},
		"duration_months": {
			Pattern: pattern(PatternNumber, MsgDurationMonthsInvalid),
			Min:     minValue(0, MsgDurationMonthsInvalid),
			Max:     maxValue(12, MsgDurationMonthsInvalid),
		},
		"duration_days": {
			Pattern: pattern(PatternNumber, MsgDurationDaysInvalid),
			Min:     minValue(0, MsgDurationDaysInvalid),
			Max:     maxValue(365, MsgDurationDaysInvalid),
		},
		"course_start_date":  {Custom: ValidDate},
		"end_date":           {Custom: ValidDate},
		"schedule":           {Custom: Schedule},
		"speciality_type":    {Custom: SpecialityType},
		"version":            {MaxLength: maxLength(100, MsgVersionMaxLength)},
		"kite_id":            {Pattern: pattern(PatternPositiveNumber, MsgKiteIDInvalid)},
		"course_zoho_id":     {MaxLength: maxLength(100, MsgZohoIDMaxLength)},
		"partner_coursecode": {MaxLength: maxLength(100, MsgPartnerCodeMaxLength)},
		"w_days":             {Custom: WeekDays},

		// 认证
		"accreditation": {MaxLength: maxLength(2000, MsgAccreditationMaxLength)},

		// 数据与访问控制
		"rating": {
			Pattern: pattern(PatternDecimal, MsgRatingDecimalInvalid),
			Min:     minValue(0, MsgRatingInvalid),
			Max:     maxValue(5, MsgRatingInvalid),
			Custom:  Rating,
		},
		"rating_count":            {Pattern: pattern(PatternPositiveNumber, MsgRatingCountInvalid)},
		"active_learners":         {Pattern: pattern(PatternNumber, MsgActiveLearnersInvalid)},
		"cpd_points":              {Pattern: pattern(PatternPositiveNumber, MsgCPDPointsInvalid)},
		"enable_contact_programs": {Required: required(MsgContactProgramsRequired)},
		"is_kyc_required":         {Required: required(MsgKYCRequiredField)},
		"is_preferred_course":     {Required: required(MsgPreferredCourseRequired)},
		"enable_index_tag":        {Required: required(MsgIndexTagRequired)},
		"no_price":                {Required: required(MsgNoPriceRequired)},

		// 价格
		"price": {
			Required: required(MsgPriceRequired),
			Pattern:  pattern(PatternPositiveNumber, MsgPriceInvalid),
			Min:      minValue(0, MsgPriceNegative),
		},
		"future_price": {
			Pattern: pattern(PatternPositiveNumber, MsgFuturePriceInvalid),
			Min:     minValue(0, MsgFuturePriceNegative),
		},
		"future_price_effect_from": {Custom: ValidDate},
		"extended_validity_price": {
			Pattern: pattern(PatternPositiveNumber, MsgExtendedPriceInvalid),
			Min:     minValue(0, MsgExtendedPriceNegative),
		},
		"major_update_price": {
			Pattern: pattern(PatternPositiveNumber, MsgMajorUpdatePriceInvalid),
			Min:     minValue(0, MsgMajorUpdatePriceNegative),
		},

		// SEO
		"seo_title":       {MaxLength: maxLength(255, MsgSEOTitleMaxLength)},
		"seo_description": {MaxLength: maxLength(500, MsgSEODescriptionMaxLength)},
		"seo_url": {
			MaxLength: maxLength(255, MsgSEOURLMaxLength),
			Pattern:   pattern(PatternSEOURL, MsgSEOURLInvalid),
		},
		"sem_url": {
			MaxLength: maxLength(255, MsgSEMURLMaxLength),
			Pattern:   pattern(PatternSEOURL, MsgSEMURLInvalid),
		},

		// 讲师 / 赞助人
		"patron_name": {
			Required:  required(MsgPatronNameRequired),
			MinLength: minLength(2, MsgPatronNameMinLength),
			MaxLength: maxLength(255, MsgPatronNameMaxLength),
		},
		"patron_designation": {
			Required:  required(MsgPatronDesignationRequired),
			MinLength: minLength(2, MsgPatronDesignationMinLen),
			MaxLength: maxLength(255, MsgPatronDesignationMaxLen),
		},
		"patron_image": {
			Required:  required(MsgPatronImageRequired),
			MaxLength: maxLength(500, MsgPatronImageMaxLength),
			Custom:    ImageFormat,
		},
	}
}
