// internal/handlers/common_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantKey  string
	}{
		{"not found", fmt.Errorf("%w: order", services.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", fmt.Errorf("%w: not yours", services.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"validation", fmt.Errorf("%w: bad quantity", services.ErrValidation), http.StatusBadRequest, "BAD_REQUEST"},
		{"conflict", fmt.Errorf("%w: duplicate", services.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"invalid transition", fmt.Errorf("%w: pending -> delivered", services.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown stays internal", fmt.Errorf("database exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tc.err)

			assert.Equal(t, tc.wantCode, w.Code)

			var resp utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantKey, resp.Error.Code)
		})
	}
}

func TestRespondServiceErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, fmt.Errorf("pq: connection refused host=10.0.0.1"))

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.NotContains(t, resp.Error.Message, "10.0.0.1")
}

func TestCurrentActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, _, ok := currentActor(c)
	assert.False(t, ok)

	userID := uuid.New()
	c.Set("user_id", userID.String())
	c.Set("user_role", string(models.UserRoleFarm))

	gotID, gotRole, ok := currentActor(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.UserRoleFarm, gotRole)
}

func TestCurrentActorMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", "not-a-uuid")

	_, _, ok := currentActor(c)
	assert.False(t, ok)
}
