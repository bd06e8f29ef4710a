package course

import (
	"errors"
	"strings"

	"katydid-course-admin/pkg/validator"
)

var (
	// ErrValidationFailed 保存前验证未通过，没有发出任何请求
	ErrValidationFailed = errors.New("validation failed")

	// ErrMissingCourseUUID 课程快照缺少 UUID
	ErrMissingCourseUUID = errors.New("course uuid is required for update")
)

// ValidationFailedError 汇总全部验证错误
type ValidationFailedError struct {
	Result validator.Result
}

func (e *ValidationFailedError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Result.Messages(), ", ")
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}

// Errors 全部字段错误
func (e *ValidationFailedError) Errors() []*validator.FieldError {
	return e.Result.Errors
}

// AsValidationFailed 提取 *ValidationFailedError
func AsValidationFailed(err error) (*ValidationFailedError, bool) {
	var vf *ValidationFailedError
	ok := errors.As(err, &vf)
	return vf, ok
}
