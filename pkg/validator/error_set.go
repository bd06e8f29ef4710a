package validator

import (
	"sync"

	"katydid-course-admin/pkg/form"
)

// ErrorSet 表单当前的验证错误集合，每个字段最多保留一条错误
// 重新验证某个字段时替换该字段原有的错误，而不是追加
//
// 线程安全：内部加锁，可被多个 goroutine 共享
type ErrorSet struct {
	v      *Validator
	mu     sync.RWMutex
	order  []string
	errors map[string]*FieldError
}

// NewErrorSet 创建错误集合，v 为 nil 时使用默认验证器
func NewErrorSet(v *Validator) *ErrorSet {
	if v == nil {
		v = Default()
	}
	return &ErrorSet{
		v:      v,
		errors: make(map[string]*FieldError),
	}
}

// Set 设置字段错误，err 为 nil 时等同于 Clear
func (s *ErrorSet) Set(field string, err *FieldError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(field, err)
}

func (s *ErrorSet) setLocked(field string, err *FieldError) {
	s.clearLocked(field)
	if err == nil {
		return
	}
	s.errors[field] = err
	s.order = append(s.order, field)
}

// Clear 清除字段错误
func (s *ErrorSet) Clear(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(field)
}

func (s *ErrorSet) clearLocked(field string) {
	if _, ok := s.errors[field]; !ok {
		return
	}
	delete(s.errors, field)
	for i, f := range s.order {
		if f == field {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reset 清空全部错误
func (s *ErrorSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.errors = make(map[string]*FieldError)
}

// Get 返回字段的错误文案，没有错误时返回空串
func (s *ErrorSet) Get(field string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.errors[field]; ok {
		return err.Message
	}
	return ""
}

// Has 字段是否有错误
func (s *ErrorSet) Has(field string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.errors[field]
	return ok
}

// Len 错误数量
func (s *ErrorSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors)
}

// IsValid 没有任何错误
func (s *ErrorSet) IsValid() bool {
	return s.Len() == 0
}

// Errors 按写入顺序返回全部错误
func (s *ErrorSet) Errors() []*FieldError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FieldError, 0, len(s.order))
	for _, f := range s.order {
		out = append(out, s.errors[f])
	}
	return out
}

// ValidateSingle 重新验证一个字段并替换它的错误
func (s *ErrorSet) ValidateSingle(field string, value any) *FieldError {
	err := s.v.ValidateField(field, value)
	s.Set(field, err)
	return err
}

// ValidateMany 验证 data 中的全部字段，并用结果重建整个集合
func (s *ErrorSet) ValidateMany(data form.Data) Result {
	result := s.v.ValidateFields(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.errors = make(map[string]*FieldError, len(result.Errors))
	for _, err := range result.Errors {
		s.setLocked(err.Field, err)
	}
	return result
}

// Apply 用分区验证结果替换对应字段的错误，fields 中没有出错的字段会被清除
func (s *ErrorSet) Apply(fields []string, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fields {
		s.clearLocked(f)
	}
	for _, err := range result.Errors {
		s.setLocked(err.Field, err)
	}
}
