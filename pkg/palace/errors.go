package palace

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Error type constants for classification.
const (
	ErrTypeNetwork    = "network"
	ErrTypeTimeout    = "timeout"
	ErrTypeCompletion = "completion"
	ErrTypeDatabase   = "database"
	ErrTypeValidation = "validation"
	ErrTypeUnknown    = "unknown"
)

// ClassifyError inspects an error and returns its type classification,
// used to group errors by category in metrics.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(errStrLower, "timeout") || strings.Contains(errStrLower, "deadline exceeded") {
		return ErrTypeTimeout
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return ErrTypeNetwork
	}
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "connection reset") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "network is unreachable") ||
		strings.Contains(errStrLower, "dial tcp") ||
		strings.Contains(errStrLower, "eof") {
		return ErrTypeNetwork
	}

	if strings.Contains(errStrLower, "api error") ||
		strings.Contains(errStrLower, "rate limit") ||
		strings.Contains(errStrLower, "completion") ||
		strings.Contains(errStrLower, "unmarshal") ||
		strings.Contains(errStrLower, "not valid json") {
		return ErrTypeCompletion
	}

	if strings.Contains(errStrLower, "sql") ||
		strings.Contains(errStrLower, "database") ||
		strings.Contains(errStrLower, "snapshot") ||
		strings.Contains(errStrLower, "constraint") {
		return ErrTypeDatabase
	}

	if strings.Contains(errStrLower, "already") ||
		strings.Contains(errStrLower, "unknown node") ||
		strings.Contains(errStrLower, "empty id") ||
		strings.Contains(errStrLower, "invalid") {
		return ErrTypeValidation
	}

	return ErrTypeUnknown
}
