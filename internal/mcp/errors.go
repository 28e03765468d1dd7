package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/agencydesk/internal/breaker"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/viewstate"
)

// Error codes returned in APIError.Code.
const (
	CodeProjectNotFound  = "PROJECT_NOT_FOUND"
	CodeClientNotFound   = "CLIENT_NOT_FOUND"
	CodeViewNotFound     = "VIEW_NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeForbidden        = "FORBIDDEN"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeEmptySelection   = "EMPTY_SELECTION"
	CodeBusy             = "MUTATION_IN_FLIGHT"
	CodeUnavailable      = "UNAVAILABLE"
	CodeMethodNotFound   = "METHOD_NOT_FOUND"
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeInternal         = "INTERNAL"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

func invalidParams(format string, args ...any) *APIError {
	return &APIError{
		Code:         CodeInvalidParams,
		Message:      fmt.Sprintf(format, args...),
		RecoveryHint: "Check the tool's input schema",
	}
}

// MapError maps domain errors to MCP error codes. Errors it doesn't know
// become INTERNAL.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: CodeProjectNotFound, Message: err.Error(), RecoveryHint: "Call refresh_projects and check the ID"}
	case errors.Is(err, project.ErrClientNotFound):
		return &APIError{Code: CodeClientNotFound, Message: err.Error(), RecoveryHint: "Create the client first with create_client"}
	case errors.Is(err, savedview.ErrViewNotFound):
		return &APIError{Code: CodeViewNotFound, Message: err.Error(), RecoveryHint: "Call list_views for valid IDs"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: CodeSessionNotFound, Message: err.Error(), RecoveryHint: "Start a new session"}
	case errors.Is(err, session.ErrUnauthorized):
		return &APIError{Code: CodeUnauthorized, Message: err.Error(), RecoveryHint: "Use a session you opened"}
	case errors.Is(err, viewstate.ErrForbidden):
		return &APIError{Code: CodeForbidden, Message: err.Error(), RecoveryHint: "Ask an owner, admin or manager"}
	case errors.Is(err, viewstate.ErrEmptySelection):
		return &APIError{Code: CodeEmptySelection, Message: err.Error(), RecoveryHint: "Select projects with toggle_selection or select_all"}
	case errors.Is(err, viewstate.ErrMutationInFlight):
		return &APIError{Code: CodeBusy, Message: err.Error(), RecoveryHint: "Retry once the pending change settles"}
	case errors.Is(err, breaker.ErrUnavailable):
		return &APIError{Code: CodeUnavailable, Message: err.Error(), RecoveryHint: "Retry later"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, savedview.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, viewstate.ErrInvalidMode),
		errors.Is(err, viewstate.ErrInvalidPage):
		return &APIError{Code: CodeValidationFailed, Message: err.Error(), RecoveryHint: "Fix the input and retry"}
	default:
		return &APIError{Code: CodeInternal, Message: err.Error()}
	}
}
