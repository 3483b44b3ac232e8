package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sistema-hospitalar/pkg/apperror"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperror.Validation("past_scheduling", "in the past"), http.StatusBadRequest, "past_scheduling"},
		{"range", apperror.Range("invalid_range", "start after end"), http.StatusBadRequest, "invalid_range"},
		{"conflict", apperror.Conflict("doctor_busy", "busy"), http.StatusConflict, "doctor_busy"},
		{"not found", apperror.NotFound("user_not_found", "missing"), http.StatusNotFound, "user_not_found"},
		{"unauthorized", apperror.Unauthorized("invalid_token", "bad token"), http.StatusUnauthorized, "invalid_token"},
		{"persistence", apperror.Persistence(errors.New("connection refused")), http.StatusInternalServerError, ""},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, log, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "connection refused")

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}
