package form

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// undefinedValue 表示"字段存在但没有可发送的值"
type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined 数值转换失败时写入的占位值
// 序列化 Data 时带有该值的键会被整体丢弃
var Undefined any = undefinedValue{}

// IsUndefined 判断值是否为 Undefined
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// IsEmpty 空值判定：nil、Undefined、去除首尾空白后为空的字符串
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case undefinedValue:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// decimalLiteral 与 JavaScript 十进制数字字面量一致（不含下划线、不含 inf/nan）
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ToNumber 按 JavaScript Number(value) 的语义把任意值转换为 float64
// 无法转换时返回 NaN，调用方通过 math.IsNaN 判断
//
// 规则：
//   - nil → 0，Undefined → NaN
//   - bool → 1 / 0
//   - 字符串去除空白；空串 → 0；支持 Infinity、0x/0o/0b 前缀与十进制字面量
//   - 切片：空 → 0，单元素 → 该元素的转换结果，多元素 → NaN
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case undefinedValue:
		return math.NaN()
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case string:
		return stringToNumber(x)
	case []string:
		switch len(x) {
		case 0:
			return 0
		case 1:
			return stringToNumber(x[0])
		default:
			return math.NaN()
		}
	case []any:
		switch len(x) {
		case 0:
			return 0
		case 1:
			return ToNumber(ToString(x[0]))
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// 进制前缀不允许带符号
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// 超出范围的字面量在 JavaScript 中为 ±Infinity
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToString 按 JavaScript String(value) 的语义格式化值
// nil 与 Undefined 返回空串（调用方在此之前已经做过空值判断）
func ToString(v any) string {
	switch x := v.(type) {
	case nil, undefinedValue:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = ToString(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		// 指数部分不补零：1e-7 而不是 1e-07
		s := strconv.FormatFloat(f, 'g', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy 按 JavaScript 的真值规则判断
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil, undefinedValue:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ToNumber(x) != 0
	default:
		return true
	}
}

// IsNumeric 判断值本身是否为 Go 数值类型（不做字符串解析）
func IsNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
