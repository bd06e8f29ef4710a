package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the course API client.
var (
	// ErrAPIBaseURL 未配置或无法解析的 API 地址
	ErrAPIBaseURL = errors.New("api base url is not configured")

	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork 网络错误（连接失败、超时等）
	ErrNetwork = errors.New("network error communicating with course api")

	// ErrUnsuccessful 响应体中的 status 字段不是 "success"
	ErrUnsuccessful = errors.New("course api reported failure")

	// ErrInvalidResponse 响应体无法解析
	ErrInvalidResponse = errors.New("invalid response from course api")
)

// APIError 非 2xx 响应
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("course api %s %s: HTTP %d %s: %s",
		e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Is 让 404 响应可以用 errors.Is(err, ErrNotFound) 判断
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound 判断错误是否表示资源不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
