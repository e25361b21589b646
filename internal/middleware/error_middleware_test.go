package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/middleware"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

func Test_HandleAPIError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{
			name:       "validation_error",
			err:        apperrors.NewValidationError("title cannot be empty"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidationFailed,
		},
		{
			name:       "precondition_failed",
			err:        apperrors.NewPreconditionFailedError("must check in to the library first"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodePreconditionFailed,
		},
		{
			name:       "conflict",
			err:        apperrors.NewConflictError("book is not available"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeConflict,
		},
		{
			name:       "book_unavailable_sentinel",
			err:        apperrors.ErrBookNotAvailable,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeConflict,
		},
		{
			name:       "already_borrowed_sentinel",
			err:        apperrors.ErrAlreadyBorrowed,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeConflict,
		},
		{
			name:       "book_not_found",
			err:        apperrors.ErrBookNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrorCodeResourceNotFound,
		},
		{
			name:       "not_found_with_message",
			err:        apperrors.NewResourceNotFoundError("no books available"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrorCodeResourceNotFound,
		},
		{
			name:       "expired_token",
			err:        apperrors.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrorCodeExpiredToken,
		},
		{
			name:       "unknown_error_is_opaque",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrorCodeInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest("GET", "/test", nil)

			middleware.HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func Test_HandleAPIError_UnknownErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/test", nil)

	middleware.HandleAPIError(c, errors.New("password=hunter2 leaked into error"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.NotContains(t, recorder.Body.String(), "hunter2")
}
