package validator

import "errors"

var (
	// ErrUnknownTab 未知的分区标识
	ErrUnknownTab = errors.New("unknown validation tab")
)
