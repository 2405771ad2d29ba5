package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)

	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind   domain.Kind
		status int
	}{
		{domain.KindInvalidArgument, http.StatusBadRequest},
		{domain.KindDuplicateProduct, http.StatusBadRequest},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindInactive, http.StatusConflict},
		{domain.KindInsufficientStock, http.StatusConflict},
		{domain.KindLimitExceeded, http.StatusConflict},
		{domain.KindStockChanged, http.StatusConflict},
		{domain.KindInvalidTransition, http.StatusConflict},
		{domain.KindAlreadyInState, http.StatusConflict},
		{domain.KindUnexpected, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w, body := respond(t, domain.NewError(tt.kind, "boom"))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, string(tt.kind), body["kind"])
		})
	}
}

func TestRespondErrorMasksUnexpectedDetails(t *testing.T) {
	wrapped := domain.WrapError(domain.KindUnexpected, "failed to commit placement",
		errors.New("pq: connection reset"))

	w, body := respond(t, wrapped)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "an unexpected error occurred", body["error"])
}

func TestRespondErrorMarksStockConflictRetryable(t *testing.T) {
	w, body := respond(t, domain.NewError(domain.KindStockChanged, "stock changed"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, body["retryable"])
}

func TestRespondErrorPlainError(t *testing.T) {
	w, body := respond(t, errors.New("driver failure"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "an unexpected error occurred", body["error"])
	assert.Equal(t, string(domain.KindUnexpected), body["kind"])
}
