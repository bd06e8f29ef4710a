package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorMessageEstimateLen 单条错误信息的预估长度，用于预分配
const errorMessageEstimateLen = 64

// FieldError 单个字段的验证错误
// 键（Key）是稳定契约，文案（Message）由消息表生成，可随时调整
type FieldError struct {
	// Field 表单字段名
	Field string `json:"field"`
	// Message 面向用户的英文文案
	Message string `json:"message"`
	// Type 错误类别
	Type ErrorType `json:"type"`
	// Key 消息键
	Key MessageKey `json:"key"`
	// Param 规则参数（如最小长度 3 中的 "3"）
	Param string `json:"param,omitempty"`
	// Value 触发错误的原始值，不参与序列化
	Value any `json:"-"`
}

// NewFieldError 创建字段错误，文案由消息键生成
func NewFieldError(field string, typ ErrorType, key MessageKey, value any) *FieldError {
	return &FieldError{
		Field:   field,
		Message: Text(key, field),
		Type:    typ,
		Key:     key,
		Value:   value,
	}
}

// WithParam 设置规则参数
func (fe *FieldError) WithParam(param string) *FieldError {
	fe.Param = param
	return fe
}

// WithField 把错误改挂到另一个字段名下，文案不变
func (fe *FieldError) WithField(field string) *FieldError {
	fe.Field = field
	return fe
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	if fe.Message != "" {
		return fmt.Sprintf("field '%s': %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("field '%s' validation failed on '%s'", fe.Field, fe.Type)
}

// Error 实现 error 接口
func (fe *FieldError) Error() string {
	return fe.String()
}

// ValidationContext 一次验证过程中收集错误的上下文
type ValidationContext struct {
	// Tab 当前验证的分区（可选）
	Tab Tab `json:"tab,omitempty"`
	// Errors 所有验证错误的集合
	Errors []*FieldError `json:"errors,omitempty"`
}

// NewValidationContext 创建验证上下文
func NewValidationContext(tab Tab) *ValidationContext {
	return &ValidationContext{
		Tab:    tab,
		Errors: make([]*FieldError, 0),
	}
}

// AddError 添加字段错误，nil 被忽略
func (vc *ValidationContext) AddError(err *FieldError) {
	if err != nil {
		vc.Errors = append(vc.Errors, err)
	}
}

// AddErrors 批量添加字段错误
func (vc *ValidationContext) AddErrors(errs []*FieldError) {
	for _, err := range errs {
		vc.AddError(err)
	}
}

// HasErrors 检查是否有验证错误
func (vc *ValidationContext) HasErrors() bool {
	return len(vc.Errors) > 0
}

// Result 转换为验证结果
func (vc *ValidationContext) Result() Result {
	return Result{
		IsValid: len(vc.Errors) == 0,
		Errors:  vc.Errors,
	}
}

// Error 实现 error 接口
func (vc *ValidationContext) Error() string {
	if len(vc.Errors) == 0 {
		return "validation passed: no errors"
	}

	var builder strings.Builder
	builder.Grow(len(vc.Errors) * errorMessageEstimateLen)

	for i, err := range vc.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.String())
	}

	return builder.String()
}

// Result 分区验证结果
type Result struct {
	IsValid bool          `json:"is_valid"`
	Errors  []*FieldError `json:"errors"`
}

// Valid 返回没有错误的结果
func Valid() Result {
	return Result{IsValid: true, Errors: []*FieldError{}}
}

// Merge 合并多个结果，错误按参数顺序拼接
func Merge(results ...Result) Result {
	ctx := NewValidationContext("")
	for _, r := range results {
		ctx.AddErrors(r.Errors)
	}
	return ctx.Result()
}

// Messages 返回所有错误文案
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		out = append(out, err.Message)
	}
	return out
}

// FieldMessage 返回指定字段的第一条错误文案，没有时返回空串
func (r Result) FieldMessage(field string) string {
	for _, err := range r.Errors {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// HasFieldError 指定字段是否有错误
func (r Result) HasFieldError(field string) bool {
	for _, err := range r.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ErrorsByField 字段名 → 该字段的所有错误
func (r Result) ErrorsByField() map[string][]*FieldError {
	out := make(map[string][]*FieldError, len(r.Errors))
	for _, err := range r.Errors {
		out[err.Field] = append(out[err.Field], err)
	}
	return out
}

// ToJSON 转换为 JSON 格式
func (r Result) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
