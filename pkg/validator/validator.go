package validator

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"katydid-course-admin/pkg/form"
)

// Validator 课程表单验证器
// 设计原则：
//   - 规则表驱动：字段验证只读取声明式的 RuleTable，没有按字段拆分的验证器类型
//   - 无状态：创建后只读，可在多个 goroutine 中并发使用
//   - 工厂模式：New() 创建独立实例，Default() 返回共享的默认实例
//
// 关联实体（FAQ、证书、推荐、赞助人）的存在性检查交给 go-playground/validator
type Validator struct {
	// rules 字段名 → 规则
	rules RuleTable
	// validate 底层验证器实例（go-playground/validator）
	validate *validator.Validate
}

// Option 验证器配置选项
type Option func(*Validator)

// WithRules 使用指定的规则表替换默认规则表
func WithRules(rules RuleTable) Option {
	return func(v *Validator) {
		v.rules = rules.Clone()
	}
}

// WithRule 覆盖或新增单个字段的规则
func WithRule(field string, rule *Rule) Option {
	return func(v *Validator) {
		if rule == nil {
			delete(v.rules, field)
			return
		}
		v.rules[field] = rule
	}
}

var (
	// defaultValidator 默认验证器实例，只读共享
	defaultValidator *Validator
	// once 确保默认验证器只初始化一次（线程安全）
	once sync.Once
)

// Default 获取默认验证器实例
// 默认实例创建后不再修改，不构成可变的全局状态
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// New 创建新的验证器实例，默认使用 DefaultRules
func New(opts ...Option) *Validator {
	validate := validator.New()

	// 使用 json tag 作为字段名，错误直接对应表单字段
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{
		rules:    DefaultRules(),
		validate: validate,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rule 返回字段的规则，没有规则时返回 nil
func (v *Validator) Rule(field string) *Rule {
	return v.rules[field]
}

// Fields 返回所有配置了规则的字段（已排序）
func (v *Validator) Fields() []string {
	out := make([]string, 0, len(v.rules))
	for f := range v.rules {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ValidateField 按规则表验证单个字段，通过时返回 nil
//
// 验证流程：
//  1. 没有规则的字段直接通过
//  2. 必填且为空：返回 required 错误，后续检查全部跳过
//  3. 非必填且为空：直接通过
//  4. 依次执行最小长度、最大长度、正则、最小值、最大值、自定义检查，返回第一个失败项
//
// 长度与正则作用于去除首尾空白后的字符串形式；数值边界按 JavaScript Number 语义转换，
// 转换结果为 NaN 时跳过边界检查，正则检查不受影响；自定义检查接收原始值
func (v *Validator) ValidateField(field string, raw any) *FieldError {
	rule := v.rules[field]
	if rule == nil {
		return nil
	}
	return checkRule(field, raw, rule)
}

// ValidateFields 验证 data 中所有配置了规则的字段
// 错误按字段名排序，保证输出稳定
func (v *Validator) ValidateFields(data form.Data) Result {
	ctx := NewValidationContext("")
	for _, field := range data.Keys() {
		ctx.AddError(v.ValidateField(field, data[field]))
	}
	return ctx.Result()
}

func checkRule(field string, raw any, rule *Rule) *FieldError {
	empty := form.IsEmpty(raw)

	if rule.Required != nil && rule.Required.Value && empty {
		key := rule.Required.Message
		if key == "" {
			key = MsgRequired
		}
		return NewFieldError(field, ErrorRequired, key, raw)
	}

	if empty {
		return nil
	}

	str := strings.TrimSpace(form.ToString(raw))
	length := stringLength(str)

	if rule.MinLength != nil && length < rule.MinLength.Value {
		return NewFieldError(field, ErrorLength, rule.MinLength.Message, raw).
			WithParam(strconv.Itoa(rule.MinLength.Value))
	}

	if rule.MaxLength != nil && length > rule.MaxLength.Value {
		return NewFieldError(field, ErrorLength, rule.MaxLength.Message, raw).
			WithParam(strconv.Itoa(rule.MaxLength.Value))
	}

	if rule.Pattern != nil && rule.Pattern.Value != nil && !rule.Pattern.Value.MatchString(str) {
		return NewFieldError(field, ErrorFormat, rule.Pattern.Message, raw).
			WithParam(rule.Pattern.Value.String())
	}

	num := form.ToNumber(raw)
	if rule.Min != nil && !math.IsNaN(num) && num < rule.Min.Value {
		return NewFieldError(field, ErrorRange, rule.Min.Message, raw).
			WithParam(form.ToString(rule.Min.Value))
	}

	if rule.Max != nil && !math.IsNaN(num) && num > rule.Max.Value {
		return NewFieldError(field, ErrorRange, rule.Max.Message, raw).
			WithParam(form.ToString(rule.Max.Value))
	}

	if rule.Custom != nil {
		if key := rule.Custom(raw); key != "" {
			return NewFieldError(field, ErrorCustom, key, raw)
		}
	}

	return nil
}

// stringLength 按 UTF-16 码元计数，与浏览器端输入框的长度限制保持一致
func stringLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
