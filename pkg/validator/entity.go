package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"katydid-course-admin/pkg/form"
)

// 关联实体不在规则表的字段范围内，只做存在性检查
// 检查前先把原始值整理成去除首尾空白的字符串，再交给 required 标签判断

type faqInput struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type certificateInput struct {
	Key string `json:"key" validate:"required"`
	URL string `json:"url" validate:"required"`
}

type recommendationInput struct {
	RecommendedCourseUUID string `json:"recommended_course_uuid" validate:"required"`
}

// presenceMessages JSON 字段名 → 缺失时的消息键
var presenceMessages = map[string]MessageKey{
	"question":                MsgFAQQuestionRequired,
	"answer":                  MsgFAQAnswerRequired,
	"key":                     MsgCertificateKeyRequired,
	"url":                     MsgCertificateURLRequired,
	"recommended_course_uuid": MsgRecommendationCourseEmpty,
}

// patronFields 赞助人表单字段 → 规则表中的字段
var patronFields = []struct {
	dataKey string
	ruleKey string
}{
	{"name", "patron_name"},
	{"designation", "patron_designation"},
	{"image", "patron_image"},
}

// presentString 假值视为缺失，其余值转为去除首尾空白的字符串
func presentString(raw any) string {
	if !form.Truthy(raw) {
		return ""
	}
	return strings.TrimSpace(form.ToString(raw))
}

// checkPresence 用 go-playground/validator 执行 required 检查并转换为字段错误
func (v *Validator) checkPresence(ctx *ValidationContext, input any, data form.Data) {
	err := v.validate.Struct(input)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// 非字段错误（输入类型不合法）属于编程错误
		panic(err)
	}
	for _, fe := range verrs {
		field := fe.Field()
		key, ok := presenceMessages[field]
		if !ok {
			key = MsgRequired
		}
		ctx.AddError(NewFieldError(field, ErrorRequired, key, data[field]))
	}
}

// ValidateFAQ 问题和答案都不能为空
func (v *Validator) ValidateFAQ(data form.Data) Result {
	ctx := NewValidationContext(TabFAQ)
	v.checkPresence(ctx, faqInput{
		Question: presentString(data["question"]),
		Answer:   presentString(data["answer"]),
	}, data)
	return ctx.Result()
}

// ValidateCertificate 证书类型和地址都不能为空
func (v *Validator) ValidateCertificate(data form.Data) Result {
	ctx := NewValidationContext(TabCertificate)
	v.checkPresence(ctx, certificateInput{
		Key: presentString(data["key"]),
		URL: presentString(data["url"]),
	}, data)
	return ctx.Result()
}

// ValidateRecommendation 必须选择推荐课程，且位置已设置（0 是合法位置）
func (v *Validator) ValidateRecommendation(data form.Data) Result {
	ctx := NewValidationContext(TabRecommendation)
	uuid := ""
	if form.Truthy(data["recommended_course_uuid"]) {
		// 只判断真值，不去除空白
		uuid = form.ToString(data["recommended_course_uuid"])
	}
	v.checkPresence(ctx, recommendationInput{RecommendedCourseUUID: uuid}, data)

	if position := data["position"]; position == nil || form.IsUndefined(position) {
		ctx.AddError(NewFieldError("position", ErrorRequired, MsgRecommendationPosition, position))
	}
	return ctx.Result()
}

// ValidatePatron 赞助人表单的 name/designation/image 套用 patron_* 规则
// 只验证出现的字段，错误挂在表单字段名下
func (v *Validator) ValidatePatron(data form.Data) Result {
	ctx := NewValidationContext(TabPatron)
	for _, pf := range patronFields {
		value, ok := data[pf.dataKey]
		if !ok {
			continue
		}
		if err := v.ValidateField(pf.ruleKey, value); err != nil {
			ctx.AddError(err.WithField(pf.dataKey))
		}
	}
	return ctx.Result()
}
