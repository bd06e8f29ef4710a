package validator

import "regexp"

// ErrorType 字段验证错误的类别
type ErrorType string

const (
	ErrorRequired ErrorType = "required" // 必填
	ErrorFormat   ErrorType = "format"   // 格式（正则）
	ErrorLength   ErrorType = "length"   // 长度
	ErrorRange    ErrorType = "range"    // 数值范围
	ErrorCustom   ErrorType = "custom"   // 自定义检查
)

// RequiredRule 必填规则，Message 为空时使用 MsgRequired
type RequiredRule struct {
	Value   bool
	Message MessageKey
}

// LengthRule 长度规则，按去除首尾空白后的字符串计算
type LengthRule struct {
	Value   int
	Message MessageKey
}

// PatternRule 正则规则，对去除首尾空白后的字符串求值
type PatternRule struct {
	Value   *regexp.Regexp
	Message MessageKey
}

// BoundRule 数值边界规则，值无法转换为数值时跳过
type BoundRule struct {
	Value   float64
	Message MessageKey
}

// CustomFunc 自定义检查，接收未经转换的原始值
// 返回空字符串表示通过，否则返回违反的消息键
type CustomFunc func(raw any) MessageKey

// Rule 单个字段的声明式验证规则
// 各项检查的执行顺序固定：必填 → 最小长度 → 最大长度 → 正则 → 最小值 → 最大值 → 自定义
// 与结构体字段的声明顺序无关
type Rule struct {
	Required  *RequiredRule
	MinLength *LengthRule
	MaxLength *LengthRule
	Pattern   *PatternRule
	Min       *BoundRule
	Max       *BoundRule
	Custom    CustomFunc
}

// IsRequired 规则是否要求字段非空
func (r *Rule) IsRequired() bool {
	return r != nil && r.Required != nil && r.Required.Value
}

// RuleTable 字段名 → 规则
// map 的键唯一，天然保证每个字段最多一条规则；不在表中的字段不做验证
type RuleTable map[string]*Rule

// Clone 浅拷贝规则表，规则本身共享
func (t RuleTable) Clone() RuleTable {
	out := make(RuleTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ============================================================================
// 规则构造辅助函数
// ============================================================================

func required(msg MessageKey) *RequiredRule { return &RequiredRule{Value: true, Message: msg} }

func minLength(n int, msg MessageKey) *LengthRule { return &LengthRule{Value: n, Message: msg} }

func maxLength(n int, msg MessageKey) *LengthRule { return &LengthRule{Value: n, Message: msg} }

func pattern(re *regexp.Regexp, msg MessageKey) *PatternRule {
	return &PatternRule{Value: re, Message: msg}
}

func minValue(n float64, msg MessageKey) *BoundRule { return &BoundRule{Value: n, Message: msg} }

func maxValue(n float64, msg MessageKey) *BoundRule { return &BoundRule{Value: n, Message: msg} }
