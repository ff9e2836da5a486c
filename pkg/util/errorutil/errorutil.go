package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Error codes rendered to clients.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeServerMisconfigured = "SERVER_MISCONFIGURED"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeCheckoutFailed      = "CHECKOUT_FAILED"
	CodeChatFailed          = "CHAT_FAILED"
	CodeWebhookFailed       = "N8N_FAILED"
	CodeUpstreamFailed      = "UPSTREAM_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewMisconfigured reports a deployment fault, e.g. a missing secret.
func NewMisconfigured(detail string) error {
	return NewDomainError(CodeServerMisconfigured, "server misconfigured", http.StatusInternalServerError,
		map[string]any{"detail": detail})
}

// NewAuthFailed hides the cause of a failed sign-in from the client while
// keeping it for logs.
func NewAuthFailed(err error) error {
	return &DomainError{
		Code:       CodeAuthFailed,
		Message:    "authentication failed",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewUpstreamError wraps a failure reported by an external collaborator.
func NewUpstreamError(code, message string, status int, details map[string]any, err error) error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_")),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
