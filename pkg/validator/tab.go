package validator

import (
	"fmt"

	"katydid-course-admin/pkg/form"
)

// Tab 课程编辑页的分区标识
type Tab string

const (
	TabCourseStructure   Tab = "course-structure"
	TabCourseSettings    Tab = "course-settings"
	TabPricing           Tab = "pricing"
	TabSEO               Tab = "seo"
	TabFAQ               Tab = "faq"
	TabCertificate       Tab = "certificate"
	TabRecommendation    Tab = "recommendation"
	TabPatron            Tab = "patron"
	TabCourseInformation Tab = "course-information"
	TabVisualAssets      Tab = "visual-assets"
	TabCourseContent     Tab = "course-content"
	TabAdministration    Tab = "administration"
	TabAccreditation     Tab = "accreditation"
	TabAnalytics         Tab = "analytics"
)

// 各分区固定的字段列表
var (
	courseInformationFields = []string{
		"course_name", "title", "course_card_title", "one_line_description",
		"short_description", "description", "category_id", "course_type_id",
	}
	visualAssetsFields = []string{
		"banner", "banner_alt_tag", "thumbnail_web", "thumbnail_mobile",
		"course_demo_url", "course_demo_mobile_url", "brochure",
	}
	courseContentFields = []string{
		"overview", "what_you_will_learn", "summary", "disclosure",
		"financial_aid", "pedagogy", "alumni_work",
	}
	administrationFields = []string{
		"duration", "duration_years", "duration_months", "duration_days",
		"course_start_date", "end_date", "schedule", "speciality_type",
		"version", "kite_id", "course_zoho_id", "partner_coursecode",
	}
	accreditationFields = []string{"accreditation"}
	analyticsFields     = []string{
		"rating", "rating_count", "active_learners", "cpd_points",
		"enable_contact_programs", "is_kyc_required", "is_preferred_course",
		"enable_index_tag", "no_price",
	}
	pricingFields = []string{
		"price", "future_price", "future_price_effect_from",
		"extended_validity_price", "major_update_price",
	}
	seoFields = []string{"seo_title", "seo_description", "seo_url", "sem_url"}

	// courseSettingsFields 课程设置页包含以上六个小节的全部字段
	courseSettingsFields = concatFields(
		courseInformationFields,
		visualAssetsFields,
		courseContentFields,
		administrationFields,
		accreditationFields,
		analyticsFields,
	)
)

func concatFields(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// TabFields 返回分区的字段列表副本
// FAQ、证书、推荐、赞助人以及课程结构分区不走规则表，返回 nil
func TabFields(tab Tab) []string {
	var fields []string
	switch tab {
	case TabCourseSettings:
		fields = courseSettingsFields
	case TabPricing:
		fields = pricingFields
	case TabSEO:
		fields = seoFields
	case TabCourseInformation:
		fields = courseInformationFields
	case TabVisualAssets:
		fields = visualAssetsFields
	case TabCourseContent:
		fields = courseContentFields
	case TabAdministration:
		fields = administrationFields
	case TabAccreditation:
		fields = accreditationFields
	case TabAnalytics:
		fields = analyticsFields
	default:
		return nil
	}
	return append([]string(nil), fields...)
}

// Tabs 返回所有分区
func Tabs() []Tab {
	return []Tab{
		TabCourseStructure, TabCourseSettings, TabPricing, TabSEO,
		TabFAQ, TabCertificate, TabRecommendation, TabPatron,
		TabCourseInformation, TabVisualAssets, TabCourseContent,
		TabAdministration, TabAccreditation, TabAnalytics,
	}
}

// ValidateTab 按分区标识分派到对应的验证方法
func (v *Validator) ValidateTab(tab Tab, data form.Data) (Result, error) {
	switch tab {
	case TabCourseStructure:
		return v.ValidateCourseStructure(data), nil
	case TabCourseSettings:
		return v.ValidateCourseSettings(data), nil
	case TabPricing:
		return v.ValidatePricing(data), nil
	case TabSEO:
		return v.ValidateSEO(data), nil
	case TabFAQ:
		return v.ValidateFAQ(data), nil
	case TabCertificate:
		return v.ValidateCertificate(data), nil
	case TabRecommendation:
		return v.ValidateRecommendation(data), nil
	case TabPatron:
		return v.ValidatePatron(data), nil
	case TabCourseInformation:
		return v.ValidateCourseInformation(data), nil
	case TabVisualAssets:
		return v.ValidateVisualAssets(data), nil
	case TabCourseContent:
		return v.ValidateCourseContent(data), nil
	case TabAdministration:
		return v.ValidateAdministration(data), nil
	case TabAccreditation:
		return v.ValidateAccreditation(data), nil
	case TabAnalytics:
		return v.ValidateAnalytics(data), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
}

// validatePresent 只验证 data 中出现的字段，未出现的字段即使有必填规则也跳过
func (v *Validator) validatePresent(ctx *ValidationContext, fields []string, data form.Data) {
	for _, field := range fields {
		value, ok := data[field]
		if !ok {
			continue
		}
		ctx.AddError(v.ValidateField(field, value))
	}
}

func (v *Validator) validateTabFields(tab Tab, fields []string, data form.Data) Result {
	ctx := NewValidationContext(tab)
	v.validatePresent(ctx, fields, data)
	return ctx.Result()
}

// ValidateCourseStructure 课程结构分区目前没有字段规则，总是通过
func (v *Validator) ValidateCourseStructure(_ form.Data) Result {
	return Valid()
}

// ValidateCourseSettings 课程设置分区，包含全部小节字段以及开始/结束日期的交叉检查
func (v *Validator) ValidateCourseSettings(data form.Data) Result {
	ctx := NewValidationContext(TabCourseSettings)
	v.validatePresent(ctx, courseSettingsFields, data)
	ctx.AddError(checkDateOrder(data))
	return ctx.Result()
}

// checkDateOrder 两个日期都存在且可解析时，结束日期必须严格晚于开始日期
// 与日期字段自身的格式检查互不影响
func checkDateOrder(data form.Data) *FieldError {
	startRaw, end := data["course_start_date"], data["end_date"]
	if !form.Truthy(startRaw) || !form.Truthy(end) {
		return nil
	}
	start, ok := parseDateValue(startRaw)
	if !ok {
		return nil
	}
	finish, ok := parseDateValue(end)
	if !ok {
		return nil
	}
	if !finish.After(start) {
		return NewFieldError("end_date", ErrorCustom, MsgEndDateBeforeStart, end)
	}
	return nil
}

func (v *Validator) ValidatePricing(data form.Data) Result {
	return v.validateTabFields(TabPricing, pricingFields, data)
}

func (v *Validator) ValidateSEO(data form.Data) Result {
	return v.validateTabFields(TabSEO, seoFields, data)
}

func (v *Validator) ValidateCourseInformation(data form.Data) Result {
	return v.validateTabFields(TabCourseInformation, courseInformationFields, data)
}

func (v *Validator) ValidateVisualAssets(data form.Data) Result {
	return v.validateTabFields(TabVisualAssets, visualAssetsFields, data)
}

func (v *Validator) ValidateCourseContent(data form.Data) Result {
	return v.validateTabFields(TabCourseContent, courseContentFields, data)
}

func (v *Validator) ValidateAdministration(data form.Data) Result {
	return v.validateTabFields(TabAdministration, administrationFields, data)
}

func (v *Validator) ValidateAccreditation(data form.Data) Result {
	return v.validateTabFields(TabAccreditation, accreditationFields, data)
}

func (v *Validator) ValidateAnalytics(data form.Data) Result {
	return v.validateTabFields(TabAnalytics, analyticsFields, data)
}
