package form

import (
	"fmt"
	"sort"
)

// Entity 表单字段所属的后端资源
type Entity string

const (
	EntityNone     Entity = ""
	EntityCourse   Entity = "course"
	EntitySettings Entity = "course_settings"
	EntityPricing  Entity = "course_pricing"
)

func (e Entity) String() string {
	if e == EntityNone {
		return "none"
	}
	return string(e)
}

// CourseFields courses 表的字段
var CourseFields = []string{
	"id",
	"uuid",
	"course_name",
	"title",
	"course_card_title",
	"one_line_description",
	"short_description",
	"description",
	"duration",
	"category_id",
	"course_type_id",
	"status",
	"version",
	"no_price",
	"seo_title",
	"seo_description",
	"seo_url",
	"sem_url",
	"rating",
	"rating_count",
	"active_learners",
	"cpd_points",
	"kite_id",
	"course_zoho_id",
	"created_at",
	"updated_at",
}

// SettingsFields course_settings 表的字段
var SettingsFields = []string{
	"banner",
	"overview",
	"duration_years",
	"duration_months",
	"duration_days",
	"schedule",
	"end_date",
	"course_start_date",
	"y_month",
	"y_day",
	"m_month",
	"m_day",
	"w_week",
	"w_days",
	"d_days",
	"accreditation",
	"extendedvalidity_years",
	"extendedvalidity_months",
	"extendedvalidity_days",
	"brochure",
	"financial_aid",
	"is_preferred_course",
	"what_you_will_learn",
	"course_demo_url",
	"course_demo_mobile_url",
	"children_course",
	"is_kyc_required",
	"banner_alt_tag",
	"enable_contact_programs",
	"enable_index_tag",
	"thumbnail_mobile",
	"thumbnail_web",
	"partner_coursecode",
	"disclosure",
	"summary",
	"speciality_type",
	"pedagogy",
	"alumni_work",
	"samplecertificate",
}

// PricingFields course_pricing 表的字段
var PricingFields = []string{
	"price",
	"future_price",
	"future_price_effect_from",
	"extended_validity_price",
	"major_update_price",
	"currency",
}

// membership 字段名 → 所属资源，包初始化时构建
// 同一字段出现在多个列表中属于编程错误，直接 panic
var membership = buildMembership()

func buildMembership() map[string]Entity {
	m := make(map[string]Entity, len(CourseFields)+len(SettingsFields)+len(PricingFields))
	add := func(entity Entity, fields []string) {
		for _, f := range fields {
			if owner, dup := m[f]; dup {
				panic(fmt.Sprintf("form: field %q belongs to both %s and %s", f, owner, entity))
			}
			m[f] = entity
		}
	}
	add(EntityCourse, CourseFields)
	add(EntitySettings, SettingsFields)
	add(EntityPricing, PricingFields)
	return m
}

// Buckets 按后端资源拆分后的三份表单数据
type Buckets struct {
	Course   Data `json:"course"`
	Settings Data `json:"settings"`
	Pricing  Data `json:"pricing"`
}

// Bucket 返回指定资源对应的数据，未知资源返回 nil
func (b Buckets) Bucket(entity Entity) Data {
	switch entity {
	case EntityCourse:
		return b.Course
	case EntitySettings:
		return b.Settings
	case EntityPricing:
		return b.Pricing
	default:
		return nil
	}
}

// IsEmpty 三份数据都为空
func (b Buckets) IsEmpty() bool {
	return b.Course.IsEmpty() && b.Settings.IsEmpty() && b.Pricing.IsEmpty()
}

// Compact 去掉三份数据中的 Undefined 值
func (b Buckets) Compact() Buckets {
	return Buckets{
		Course:   b.Course.Compact(),
		Settings: b.Settings.Compact(),
		Pricing:  b.Pricing.Compact(),
	}
}

// SeparateFields 把扁平表单数据按字段归属拆分到三个资源
// 不在任何列表中的字段（比如 UI 专用的多选辅助数组）被静默丢弃
// 纯函数：不修改输入，相同输入总是得到相同输出
func SeparateFields(data Data) Buckets {
	b := Buckets{
		Course:   NewData(0),
		Settings: NewData(0),
		Pricing:  NewData(0),
	}
	for key, value := range data {
		switch membership[key] {
		case EntityCourse:
			b.Course[key] = value
		case EntitySettings:
			b.Settings[key] = value
		case EntityPricing:
			b.Pricing[key] = value
		}
	}
	return b
}

// EntityOf 返回字段所属资源，未知字段返回 EntityNone
func EntityOf(field string) Entity {
	return membership[field]
}

// IsKnownField 字段是否属于可持久化的字段集合
func IsKnownField(field string) bool {
	_, ok := membership[field]
	return ok
}

// Vocabulary 返回所有可持久化字段（已排序）
func Vocabulary() []string {
	out := make([]string, 0, len(membership))
	for f := range membership {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
