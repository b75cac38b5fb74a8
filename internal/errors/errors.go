package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory classifies an error for logging and client display.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategoryTimeout    ErrorCategory = "timeout"
	CategoryInternal   ErrorCategory = "internal"
)

// codeLabels maps errbuilder codes to the stable labels surfaced in Error().
var codeLabels = map[errbuilder.ErrCode]string{
	errbuilder.CodeInvalidArgument:   "VALIDATION_ERROR",
	errbuilder.CodeResourceExhausted: "RATE_LIMIT_EXCEEDED",
	errbuilder.CodeDeadlineExceeded:  "TIMEOUT_ERROR",
}

// AppError wraps an errbuilder error with the HTTP context the handlers need.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
	StackTrace string        `json:"stack_trace,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	label, ok := codeLabels[e.ErrBuilder.ErrCode()]
	if !ok {
		label = "INTERNAL_ERROR"
	}
	return fmt.Sprintf("[%s] %s", label, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// MarshalJSON renders the wire shape of an error response. It shadows the
// embedded ErrBuilder marshaler, which requires a cause and would otherwise
// swallow the HTTP context fields.
func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error      string        `json:"error"`
		Message    string        `json:"message"`
		Category   ErrorCategory `json:"category"`
		HTTPStatus int           `json:"http_status"`
		Timestamp  time.Time     `json:"timestamp"`
		RequestID  string        `json:"request_id,omitempty"`
		StackTrace string        `json:"stack_trace,omitempty"`
	}{
		Error:      e.Error(),
		Message:    e.ErrBuilder.Msg,
		Category:   e.Category,
		HTTPStatus: e.HTTPStatus,
		Timestamp:  e.Timestamp,
		RequestID:  e.RequestID,
		StackTrace: e.StackTrace,
	})
}

// NewAppError creates an AppError from an errbuilder with HTTP context.
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// withDetail attaches a single named detail to a builder.
func withDetail(builder *errbuilder.ErrBuilder, key, value string) *errbuilder.ErrBuilder {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set(key, errors.New(value))
	return builder.WithDetails(errbuilder.NewErrDetails(errorMap))
}

// NewValidationError creates a validation error for malformed requests.
func NewValidationError(message string, details ...interface{}) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if len(details) > 0 {
		builder = withDetail(builder, "validation_details", fmt.Sprintf("%v", details[0]))
	}

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewRateLimitError creates a rate limit error with retry context.
func NewRateLimitError(retryAfter string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("Rate limit exceeded")
	builder = withDetail(builder, "retry_after", retryAfter)

	return NewAppError(builder, CategoryRateLimit, http.StatusTooManyRequests)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTimeout, http.StatusGatewayTimeout)
}

// NewInternalError creates an internal server error. Stack traces are only
// attached outside release mode so they never leak to production clients.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error")
	builder = withDetail(builder, "internal_details", message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
	if gin.Mode() != gin.ReleaseMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// ErrorHandler converts errors attached to the gin context into structured
// JSON responses after the handler chain runs.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := ToAppError(c.Errors.Last().Err)
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	}
}

// RecoveryHandler provides panic recovery with structured error responses.
// Scoring panics come from caller-supplied mapping extractors; the engine
// deliberately lets them escape, so this is where they surface.
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		appErr.StackTrace = captureStackTrace()

		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	})
}

// ToAppError converts any error to an AppError.
func ToAppError(err error) *AppError {
	switch e := err.(type) {
	case nil:
		return nil
	case *AppError:
		return e
	case *errbuilder.ErrBuilder:
		return NewAppError(e, CategoryInternal, http.StatusInternalServerError)
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}

// LogError logs an error with a level matching its category: client mistakes
// warn, everything else errors.
func LogError(c *gin.Context, err *AppError) {
	attrs := []any{
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
	}
	if cause := err.ErrBuilder.Unwrap(); cause != nil {
		attrs = append(attrs, "cause", cause)
	}

	switch err.Category {
	case CategoryValidation, CategoryRateLimit:
		slog.Warn(err.ErrBuilder.Msg, attrs...)
	default:
		slog.Error(err.ErrBuilder.Msg, attrs...)
	}
}
