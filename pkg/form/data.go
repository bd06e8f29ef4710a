package form

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
)

// Data 表单数据类型，字段名 → 原始值
//
// 设计说明：
// - 由 UI 表单组装，值可能是 string / float64 / bool / []string / nil
// - 验证与路由核心只读取、分类，从不修改调用方传入的 Data
// - 转换类操作（ConvertToAPITypes、SeparateFields、Compact）总是返回新的 Data
// - 支持数据库 JSON 存储（审计日志保存提交的负载）
//
// 线程安全：
// - map 类型非线程安全，多协程并发读写需要外部加锁
type Data map[string]any

// NewData 创建一个新的表单数据实例
func NewData(capacity int) Data {
	return make(Data, capacity)
}

// Set 设置字段值，空键名被忽略
func (d Data) Set(key string, value any) {
	if len(key) == 0 {
		return
	}
	d[key] = value
}

// Get 获取字段值
func (d Data) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// GetString 获取字符串类型的值
func (d Data) GetString(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has 检查键是否存在（值为 nil 也算存在）
func (d Data) Has(key string) bool {
	_, exists := d[key]
	return exists
}

// Keys 返回所有的键（已排序，保证输出确定性）
func (d Data) Keys() []string {
	if len(d) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d Data) Len() int {
	return len(d)
}

func (d Data) IsEmpty() bool {
	return len(d) == 0
}

// Clone 创建一个浅拷贝
func (d Data) Clone() Data {
	if len(d) == 0 {
		return NewData(0)
	}
	return maps.Clone(d)
}

// Pick 返回只包含指定键的新 Data，不存在的键被跳过
func (d Data) Pick(keys ...string) Data {
	out := make(Data, len(keys))
	for _, k := range keys {
		if v, ok := d[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Compact 返回去掉 Undefined 值的新 Data
// 数值转换失败的字段在发送前被整体丢弃，而不是以 NaN 发送
func (d Data) Compact() Data {
	out := make(Data, len(d))
	for k, v := range d {
		if IsUndefined(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalJSON 实现 json.Marshaler 接口，Undefined 值不会出现在输出中
func (d Data) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(d.Compact()))
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (d *Data) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}

	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to unmarshal JSON into form data: %w", err)
	}

	*d = Data(m)
	return nil
}

// Value 实现 driver.Valuer 接口
func (d Data) Value() (driver.Value, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form data to JSON: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口
func (d *Data) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan form data: unsupported database type %T, expected []byte or string", value)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}
	return d.UnmarshalJSON(raw)
}
