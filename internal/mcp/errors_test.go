package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/agencydesk/internal/breaker"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/viewstate"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("getting: %w", project.ErrProjectNotFound), CodeProjectNotFound},
		{project.ErrClientNotFound, CodeClientNotFound},
		{savedview.ErrViewNotFound, CodeViewNotFound},
		{session.ErrSessionNotFound, CodeSessionNotFound},
		{session.ErrUnauthorized, CodeUnauthorized},
		{fmt.Errorf("%w: viewer", viewstate.ErrForbidden), CodeForbidden},
		{viewstate.ErrEmptySelection, CodeEmptySelection},
		{viewstate.ErrMutationInFlight, CodeBusy},
		{fmt.Errorf("%w: open", breaker.ErrUnavailable), CodeUnavailable},
		{fmt.Errorf("%w: bad", project.ErrInvalidInput), CodeValidationFailed},
		{viewstate.ErrInvalidMode, CodeValidationFailed},
		{viewstate.ErrInvalidPage, CodeValidationFailed},
		{savedview.ErrInvalidInput, CodeValidationFailed},
		{errors.New("disk full"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.code, MapError(tt.err).Code)
		})
	}

	require.Nil(t, MapError(nil))

	apiErr := invalidParams("id is required")
	require.Same(t, apiErr, MapError(fmt.Errorf("wrapped: %w", apiErr)))
}
