package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"katydid-course-admin/pkg/course"
)

// CallSet 一次保存中发出（或成功）的调用集合，每种调用占一位
// 数据库中以整数存储，JSON 中以调用名列表表示
type CallSet int64

const (
	CallNone CallSet = 0

	CallUpdateCourse CallSet = 1 << iota
	CallCreateSettings
	CallUpdateSettings
	CallUpdatePricing
	CallBulkEligibility
	CallBulkInstructors
	CallBulkAccreditationPartners
	CallBulkClinicalObservershipPartners
)

// callOrder 位与调用名的对应关系，Names 按此顺序输出
var callOrder = []struct {
	flag CallSet
	name string
}{
	{CallUpdateCourse, course.CallUpdateCourse},
	{CallCreateSettings, course.CallCreateSettings},
	{CallUpdateSettings, course.CallUpdateSettings},
	{CallUpdatePricing, course.CallUpdatePricing},
	{CallBulkEligibility, course.CallBulkEligibility},
	{CallBulkInstructors, course.CallBulkInstructors},
	{CallBulkAccreditationPartners, course.CallBulkAccreditationPartners},
	{CallBulkClinicalObservershipPartners, course.CallBulkClinicalObservershipPartners},
}

// NewCallSet 由调用名构造集合，未知的调用名被忽略
func NewCallSet(names ...string) CallSet {
	var s CallSet
	for _, n := range names {
		s.Set(flagOf(n))
	}
	return s
}

func flagOf(name string) CallSet {
	for _, c := range callOrder {
		if c.name == name {
			return c.flag
		}
	}
	return CallNone
}

// Set 设置指定的位
func (s *CallSet) Set(flag CallSet) {
	*s |= flag
}

// Contain 检查是否包含指定的位
func (s CallSet) Contain(flag CallSet) bool {
	return s&flag == flag
}

// HasAny 检查是否包含任意一个指定的位
func (s CallSet) HasAny(flags ...CallSet) bool {
	for _, flag := range flags {
		if s&flag != 0 {
			return true
		}
	}
	return false
}

// Names 按固定顺序返回调用名
func (s CallSet) Names() []string {
	names := make([]string, 0, len(callOrder))
	for _, c := range callOrder {
		if s.Contain(c.flag) {
			names = append(names, c.name)
		}
	}
	return names
}

// Len 调用数量
func (s CallSet) Len() int {
	n := 0
	for _, c := range callOrder {
		if s.Contain(c.flag) {
			n++
		}
	}
	return n
}

// Value 实现 driver.Valuer 接口，用于数据库存储
func (s CallSet) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 实现 sql.Scanner 接口，用于从数据库读取
func (s *CallSet) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = CallNone
	case int64:
		*s = CallSet(v)
	case int:
		*s = CallSet(v)
	case []byte:
		num, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*s = CallSet(num)
	default:
		return fmt.Errorf("cannot scan type %T into CallSet", value)
	}
	return nil
}

// MarshalJSON 序列化为调用名列表
func (s CallSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON 从调用名列表反序列化
func (s *CallSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewCallSet(names...)
	return nil
}
