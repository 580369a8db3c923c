package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("bad", nil), CodeValidationFailed, http.StatusBadRequest},
		{"duplicate", NewDuplicateEmail(), CodeDuplicateEmail, http.StatusBadRequest},
		{"unauthenticated", NewUnauthenticated(ReasonTokenExpired, "expired"), CodeUnauthenticated, http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("hospital", nil)), CodeNotFound, http.StatusNotFound},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "invalid payload"), CodeValidationFailed, http.StatusBadRequest},
		{"plain error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, tt.wantStatus, de.HTTPStatus)
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	de := ToDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorContains(t, de.Unwrap(), "password authentication failed")
}

func TestUnauthenticatedCarriesReason(t *testing.T) {
	err := NewUnauthenticated(ReasonTokenExpired, "token expired")
	de := ToDomainError(err)
	assert.Equal(t, ReasonTokenExpired, de.Details["reason"])
	assert.True(t, HasCode(err, CodeUnauthenticated))
	assert.False(t, HasCode(err, CodeForbidden))
}
