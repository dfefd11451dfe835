package util

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError 聚合所有校验问题，一次性返回给调用方
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

func NewValidationError(issues ...string) *ValidationError {
	return &ValidationError{Issues: issues}
}

// MissingFieldsError 列出全部缺失字段，而不是只报第一个
func MissingFieldsError(fields []string) *ValidationError {
	return NewValidationError("missing required fields: " + strings.Join(fields, ", "))
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// UpstreamError 上游文本补全服务的失败
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream AI error (status %d): %s", e.StatusCode, e.Detail)
}

func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	ok := errors.As(err, &ue)
	return ue, ok
}
