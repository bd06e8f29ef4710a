package idgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID 封装的ID类型
// JSON 中序列化为字符串，避免 JavaScript 中大整数精度丢失
type ID int64

// ParseID 从十进制字符串解析ID
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty ID string")
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID: %w", err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid ID: must be non-negative, got %d", val)
	}
	return ID(val), nil
}

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Time 生成ID时的时间
func (id ID) Time() time.Time {
	ts, _, _ := Parse(id)
	return ts
}

// IsValid 检查ID是否有效（大于0）
func (id ID) IsValid() bool {
	return id > 0
}

// MarshalJSON 序列化为字符串
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON 支持从字符串或数字反序列化
func (id *ID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := ParseID(str)
		if err != nil {
			return err
		}
		*id = val
		return nil
	}

	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("failed to parse ID from number: %w", err)
	}
	*id = ID(num)
	return nil
}
