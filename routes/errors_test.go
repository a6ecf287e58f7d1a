package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/testutils"

	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", services.NewValidationError("title is required"), http.StatusBadRequest, "validation"},
		{"not found", services.NewNotFoundError("Note"), http.StatusNotFound, "not_found"},
		{"forbidden", services.NewForbiddenError("read only"), http.StatusForbidden, "forbidden"},
		{"conflict", services.NewConflictError("already trashed"), http.StatusConflict, "conflict"},
		{"gone", services.NewGoneError("link expired"), http.StatusGone, "gone"},
		{"wrapped", fmt.Errorf("accept: %w", services.NewConflictError("resolved")), http.StatusConflict, "conflict"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"token", services.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c := testutils.GetTestGinContext(w, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.kind, errorKind(t, w))
		})
	}
}

func TestRespondError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c := testutils.GetTestGinContext(w, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))

	respondError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password authentication")
}

func TestPrincipal_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	c := testutils.GetTestGinContext(w, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))

	_, ok := principal(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
