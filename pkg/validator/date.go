package validator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"katydid-course-admin/pkg/form"
)

// dateParser 表单日期的解析配置
// 只接受带日期部分的格式，纯时间字符串（如 "15:04"）视为无效日期
var dateParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-1-2 15:4:5",
		"2006-1-2 15:4",
		"2006-1-2",
		"2006/1/2",
		"2006/1/2 15:4:5",
		"1/2/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"Mon, 02 Jan 2006",
		time.RFC1123,
		time.RFC1123Z,
		"2006-1",
		"2006",
	},
}

// ParseDate 解析表单中的日期字符串，未带时区的按 UTC 处理
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse date: empty string")
	}
	t, err := dateParser.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// parseDateValue 字符串按日期格式解析，数值视为 Unix 毫秒时间戳
func parseDateValue(v any) (time.Time, bool) {
	if form.IsNumeric(v) {
		ms := form.ToNumber(v)
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseDate(s)
	return t, err == nil
}
