package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowpos/backend/internal/infrastructure/auth"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/glowpos/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = config.JWTConfig{
	Secret:                "0123456789abcdef0123456789abcdef",
	Issuer:                "glowpos-test",
	AccessTokenExpiration: time.Hour,
}

type authResult struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

func authRouter(allowAnonymous bool, defaultTenant uuid.UUID) *gin.Engine {
	cfg := DefaultJWTConfig(auth.NewJWTService(testJWTConfig))
	cfg.AllowAnonymous = allowAnonymous

	r := gin.New()
	r.Use(RequestID(), JWTAuth(cfg), TenantResolver(defaultTenant))
	r.GET("/api/v1/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, authResult{
			TenantID: GetTenantID(c).String(),
			UserID:   GetUserID(c).String(),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func issueToken(t *testing.T, tenantID, userID uuid.UUID) string {
	t.Helper()
	token, _, err := auth.NewJWTService(testJWTConfig).GenerateAccessToken(auth.TokenInput{
		TenantID: tenantID,
		UserID:   userID,
		RoleType: "stylist",
	})
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestJWTAuth(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	t.Run("valid token sets tenant and user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, tenantID, userID))
		// a header tenant never overrides the claim
		req.Header.Set(TenantHeader, uuid.NewString())
		w := httptest.NewRecorder()
		authRouter(false, uuid.Nil).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got authResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, tenantID.String(), got.TenantID)
		assert.Equal(t, userID.String(), got.UserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		authRouter(false, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeUnauthorized, errInfo.Code)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-jwt")
		w := httptest.NewRecorder()
		authRouter(true, uuid.Nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		w := httptest.NewRecorder()
		authRouter(false, uuid.Nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip paths bypass auth", func(t *testing.T) {
		r := gin.New()
		r.Use(JWTAuth(DefaultJWTConfig(auth.NewJWTService(testJWTConfig))))
		r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTenantResolver_Anonymous(t *testing.T) {
	defaultTenant := uuid.New()

	t.Run("header tenant", func(t *testing.T) {
		headerTenant := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(TenantHeader, headerTenant.String())
		w := httptest.NewRecorder()
		authRouter(true, defaultTenant).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got authResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, headerTenant.String(), got.TenantID)
		assert.Equal(t, uuid.Nil.String(), got.UserID)
	})

	t.Run("default tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		authRouter(true, defaultTenant).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got authResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, defaultTenant.String(), got.TenantID)
	})

	t.Run("invalid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(TenantHeader, "acme")
		w := httptest.NewRecorder()
		authRouter(true, defaultTenant).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_TENANT", decodeError(t, w).Code)
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		w := httptest.NewRecorder()
		authRouter(true, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
