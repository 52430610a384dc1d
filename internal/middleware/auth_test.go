// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func roleTestRouter(setRole string, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if setRole != "" {
			c.Set("user_role", setRole)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRoleRequired(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		allowed  []models.UserRole
		wantCode int
	}{
		{"matching role passes", string(models.UserRoleFarm), []models.UserRole{models.UserRoleFarm}, http.StatusOK},
		{"one of several passes", string(models.UserRoleDriver), []models.UserRole{models.UserRoleShipping, models.UserRoleDriver}, http.StatusOK},
		{"admin always passes", string(models.UserRoleAdmin), []models.UserRole{models.UserRoleFarm}, http.StatusOK},
		{"wrong role rejected", string(models.UserRoleRetailer), []models.UserRole{models.UserRoleFarm}, http.StatusForbidden},
		{"guest rejected", string(models.UserRoleGuest), []models.UserRole{models.UserRoleFarm}, http.StatusForbidden},
		{"missing role rejected", "", []models.UserRole{models.UserRoleFarm}, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := roleTestRouter(tc.role, RoleRequired(tc.allowed...))
			assert.Equal(t, tc.wantCode, doGet(r).Code)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	r := roleTestRouter(string(models.UserRoleAdmin), AdminRequired())
	assert.Equal(t, http.StatusOK, doGet(r).Code)

	r = roleTestRouter(string(models.UserRoleFarm), AdminRequired())
	assert.Equal(t, http.StatusForbidden, doGet(r).Code)

	r = roleTestRouter("", AdminRequired())
	assert.Equal(t, http.StatusForbidden, doGet(r).Code)
}

func optionalAuthRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seen := map[string]string{}
	r := gin.New()
	r.GET("/public", OptionalAuth(db), func(c *gin.Context) {
		if id, ok := c.Get("user_id"); ok {
			seen["user_id"] = id.(string)
		}
		if role, ok := c.Get("user_role"); ok {
			seen["user_role"] = role.(string)
		}
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	r, seen := optionalAuthRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *seen)
}

func TestOptionalAuthWithGarbageToken(t *testing.T) {
	utils.ConfigureIdentityProvider("test-secret", "test-issuer")
	r, seen := optionalAuthRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *seen)
}

func TestOptionalAuthIdentifiesActiveUser(t *testing.T) {
	utils.ConfigureIdentityProvider("test-secret", "test-issuer")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "full_name", "email", "role", "status"}).
			AddRow(userID.String(), "idp|farmer-1", "Lina Ortiz", "lina@example.com", "farm", "active"))

	token, err := utils.SignIdentityToken("idp|farmer-1", "lina@example.com", "Lina Ortiz", "farm", time.Minute)
	require.NoError(t, err)

	r, seen := optionalAuthRouter(t, db)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), (*seen)["user_id"])
	assert.Equal(t, string(models.UserRoleFarm), (*seen)["user_role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	_, ok := bearerToken(c)
	assert.False(t, ok)

	c.Request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, ok = bearerToken(c)
	assert.False(t, ok)

	c.Request.Header.Set("Authorization", "Bearer some.jwt.token")
	token, ok := bearerToken(c)
	assert.True(t, ok)
	assert.Equal(t, "some.jwt.token", token)
}
