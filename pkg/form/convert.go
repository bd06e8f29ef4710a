package form

import (
	"math"
	"strings"
)

// numericMarkers 键名包含任一片段即按数值字段处理
var numericMarkers = []string{
	"price", "rating", "count", "learners", "points",
	"duration_", "_month", "_day", "_week", "_year",
}

// Kind 键名推断出的字段类别
type Kind int

const (
	KindPassthrough Kind = iota // 原样保留
	KindID                      // 数值 ID
	KindBool                    // 布尔开关
	KindNumber                  // 数值
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "passthrough"
	}
}

// Classify 按命名约定推断字段类别，优先级：ID > 布尔 > 数值 > 原样
// ID 类别只对字符串值生效，非字符串值会继续参与后续规则的匹配
func Classify(key string, value any) Kind {
	if _, ok := value.(string); ok && strings.Contains(key, "_id") {
		return KindID
	}
	if strings.Contains(key, "is_") || strings.Contains(key, "enable_") ||
		key == "no_price" || key == "status" {
		return KindBool
	}
	for _, marker := range numericMarkers {
		if strings.Contains(key, marker) {
			return KindNumber
		}
	}
	return KindPassthrough
}

// ConvertToAPITypes 把表单原始值转换成后端 API 期望的类型
//
// 转换规则（先判空，再按 Classify 的优先级）：
//   - ""、nil、Undefined 原样保留，不参与任何转换
//   - ID：字符串转数值，转换失败时保留原字符串
//   - 布尔："1" 或不区分大小写的 "true" 为 true，其余字符串为 false，非字符串取真值
//   - 数值：转换失败时写入 Undefined，序列化时被丢弃
//
// 返回新的 Data，键集合与输入完全一致，输入不会被修改
func ConvertToAPITypes(data Data) Data {
	out := make(Data, len(data))
	for key, value := range data {
		out[key] = convertValue(key, value)
	}
	return out
}

// ConvertValue 对单个字段应用 ConvertToAPITypes 的规则
func ConvertValue(key string, value any) any {
	return convertValue(key, value)
}

func convertValue(key string, value any) any {
	if isBlank(value) {
		return value
	}

	switch Classify(key, value) {
	case KindID:
		s := value.(string)
		n := ToNumber(s)
		if math.IsNaN(n) {
			return s
		}
		return n
	case KindBool:
		if s, ok := value.(string); ok {
			return s == "1" || strings.ToLower(s) == "true"
		}
		return Truthy(value)
	case KindNumber:
		n := ToNumber(value)
		if math.IsNaN(n) {
			return Undefined
		}
		return n
	default:
		return value
	}
}

// isBlank 转换前的判空只认空串本身，不做去空白处理
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil, undefinedValue:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
