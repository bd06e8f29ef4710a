package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-course-admin/pkg/form"
)

// ============================================================================
// 分区验证测试
// ============================================================================

func TestValidateCourseSettings(t *testing.T) {
	v := Default()

	t.Run("课程名过短只有一条错误", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{"course_name": "ab"})

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "course_name", result.Errors[0].Field)
		assert.Equal(t, MsgCourseNameMinLength, result.Errors[0].Key)
	})

	t.Run("课程名合法", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{"course_name": "Intro to ECG"})

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("结束日期早于开始日期", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{
			"course_start_date": "2024-01-10",
			"end_date":          "2024-01-01",
		})

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "end_date", result.Errors[0].Field)
		assert.Equal(t, MsgEndDateBeforeStart, result.Errors[0].Key)
	})

	t.Run("结束日期等于开始日期", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{
			"course_start_date": "2024-01-10",
			"end_date":          "2024-01-10",
		})

		assert.True(t, result.HasFieldError("end_date"))
	})

	t.Run("结束日期晚于开始日期", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{
			"course_start_date": "2024-01-01",
			"end_date":          "2024-01-10",
		})

		assert.True(t, result.IsValid)
	})

	t.Run("毫秒时间戳参与日期比较", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{
			"course_start_date": float64(1704844800000), // 2024-01-10
			"end_date":          float64(1704067200000), // 2024-01-01
		})

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "end_date", result.Errors[0].Field)
		assert.Equal(t, MsgEndDateBeforeStart, result.Errors[0].Key)

		result = v.ValidateCourseSettings(form.Data{
			"course_start_date": float64(1704067200000),
			"end_date":          "2024-01-10",
		})
		assert.True(t, result.IsValid)
	})

	t.Run("日期无法解析时只报格式错误", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{
			"course_start_date": "someday",
			"end_date":          "2024-01-01",
		})

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "course_start_date", result.Errors[0].Field)
		assert.Equal(t, MsgInvalidDate, result.Errors[0].Key)
	})

	t.Run("未出现的必填字段被跳过", func(t *testing.T) {
		assert.True(t, v.ValidateCourseSettings(form.Data{}).IsValid)
	})

	t.Run("不属于分区的字段被忽略", func(t *testing.T) {
		result := v.ValidateCourseSettings(form.Data{"price": "", "w_days": "Mon"})
		assert.True(t, result.IsValid)
	})
}

func TestValidateSectionTabs(t *testing.T) {
	v := Default()

	tests := []struct {
		name      string
		tab       Tab
		data      form.Data
		wantField []string
	}{
		{name: "价格必填", tab: TabPricing, data: form.Data{"price": ""}, wantField: []string{"price"}},
		{name: "价格合法", tab: TabPricing, data: form.Data{"price": "100", "future_price": "80"}},
		{name: "SEO地址非法", tab: TabSEO, data: form.Data{"seo_url": "Has Space", "seo_title": "ok"}, wantField: []string{"seo_url"}},
		{name: "课程信息", tab: TabCourseInformation, data: form.Data{"title": "ab", "category_id": "x"}, wantField: []string{"title", "category_id"}},
		{name: "视觉素材", tab: TabVisualAssets, data: form.Data{"banner_alt_tag": ""}, wantField: []string{"banner_alt_tag"}},
		{name: "课程内容", tab: TabCourseContent, data: form.Data{"overview": nil}, wantField: []string{"overview"}},
		{name: "课程管理", tab: TabAdministration, data: form.Data{"kite_id": "12a"}, wantField: []string{"kite_id"}},
		{name: "认证", tab: TabAccreditation, data: form.Data{"accreditation": "ok"}},
		{name: "数据与访问控制", tab: TabAnalytics, data: form.Data{"rating": "5.123", "no_price": ""}, wantField: []string{"rating", "no_price"}},
		{name: "课程结构总是通过", tab: TabCourseStructure, data: form.Data{"course_name": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateTab(tt.tab, tt.data)
			require.NoError(t, err)

			var fields []string
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantField, fields)
			assert.Equal(t, len(tt.wantField) == 0, result.IsValid)
		})
	}
}

func TestValidateTab_Unknown(t *testing.T) {
	_, err := Default().ValidateTab("logs", form.Data{})

	assert.True(t, errors.Is(err, ErrUnknownTab))
}

func TestTabFields(t *testing.T) {
	settings := TabFields(TabCourseSettings)
	assert.Len(t, settings, 44)
	assert.Equal(t, "course_name", settings[0])
	assert.Equal(t, "no_price", settings[len(settings)-1])

	assert.Nil(t, TabFields(TabFAQ))
	assert.Len(t, Tabs(), 14)

	// 返回副本
	settings[0] = "changed"
	assert.Equal(t, "course_name", TabFields(TabCourseSettings)[0])
}

// ============================================================================
// 关联实体验证测试
// ============================================================================

func TestValidateFAQ(t *testing.T) {
	v := Default()

	result := v.ValidateFAQ(form.Data{})
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "question", result.Errors[0].Field)
	assert.Equal(t, "Question is required", result.Errors[0].Message)
	assert.Equal(t, "answer", result.Errors[1].Field)
	assert.Equal(t, ErrorRequired, result.Errors[1].Type)

	result = v.ValidateFAQ(form.Data{"question": "   ", "answer": "Yes"})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, MsgFAQQuestionRequired, result.Errors[0].Key)

	assert.True(t, v.ValidateFAQ(form.Data{"question": "Why?", "answer": "Because"}).IsValid)
}

func TestValidateCertificate(t *testing.T) {
	v := Default()

	result := v.ValidateCertificate(form.Data{"key": "completion", "url": ""})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "url", result.Errors[0].Field)
	assert.Equal(t, "Certificate URL is required", result.Errors[0].Message)

	assert.True(t, v.ValidateCertificate(form.Data{"key": "completion", "url": "https://x/c.pdf"}).IsValid)
}

func TestValidateRecommendation(t *testing.T) {
	v := Default()

	result := v.ValidateRecommendation(form.Data{})
	require.Len(t, result.Errors, 2)
	assert.Equal(t, MsgRecommendationCourseEmpty, result.Errors[0].Key)
	assert.Equal(t, MsgRecommendationPosition, result.Errors[1].Key)

	// 位置为 0 是合法的
	result = v.ValidateRecommendation(form.Data{"recommended_course_uuid": "c-1", "position": float64(0)})
	assert.True(t, result.IsValid)

	result = v.ValidateRecommendation(form.Data{"recommended_course_uuid": "c-1", "position": nil})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "position", result.Errors[0].Field)
}

func TestValidatePatron(t *testing.T) {
	v := Default()

	result := v.ValidatePatron(form.Data{"name": "A", "designation": "CEO", "image": "/a.png"})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Equal(t, MsgPatronNameMinLength, result.Errors[0].Key)

	result = v.ValidatePatron(form.Data{"image": ""})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "image", result.Errors[0].Field)
	assert.Equal(t, "Image URL is required", result.Errors[0].Message)

	assert.True(t, v.ValidatePatron(form.Data{}).IsValid)
}

// ============================================================================
// 错误集合测试
// ============================================================================

func TestErrorSet(t *testing.T) {
	set := NewErrorSet(nil)

	err := set.ValidateSingle("course_name", "ab")
	require.NotNil(t, err)
	assert.True(t, set.Has("course_name"))
	assert.Equal(t, "Course name must be at least 3 characters", set.Get("course_name"))

	// 同一字段再次验证时替换而不是追加
	set.ValidateSingle("course_name", "")
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, "Course name is required", set.Get("course_name"))

	assert.Nil(t, set.ValidateSingle("course_name", "Intro to ECG"))
	assert.False(t, set.Has("course_name"))
	assert.True(t, set.IsValid())

	result := set.ValidateMany(form.Data{"title": "ab", "seo_url": "Bad URL"})
	assert.False(t, result.IsValid)
	assert.Equal(t, 2, set.Len())

	set.Clear("title")
	assert.Equal(t, []*FieldError{result.Errors[0]}, set.Errors())

	set.Reset()
	assert.True(t, set.IsValid())
	assert.Empty(t, set.Get("seo_url"))
}

func TestErrorSet_Apply(t *testing.T) {
	v := Default()
	set := NewErrorSet(v)
	set.ValidateSingle("seo_title", strings.Repeat("a", 300))
	set.ValidateSingle("price", "")

	result := v.ValidateSEO(form.Data{"seo_title": "short", "seo_url": "Bad URL"})
	set.Apply(TabFields(TabSEO), result)

	assert.False(t, set.Has("seo_title"))
	assert.True(t, set.Has("seo_url"))
	assert.True(t, set.Has("price"))
}
