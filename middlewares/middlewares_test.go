package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/storefront-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
}

func whoAmI(c *gin.Context) {
	userID, role, ok := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role, "authenticated": ok})
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRoles(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(utils.RoleAdmin), whoAmI)

	adminToken, err := utils.GenerateToken(1, utils.RoleAdmin)
	require.NoError(t, err)
	customerToken, err := utils.GenerateToken(2, utils.RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "garbage").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, customerToken).Code)

	w := doRequest(r, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAuthMiddlewareRejectsBlacklistedToken(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(), whoAmI)

	token, err := utils.GenerateToken(3, utils.RoleCustomer)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, token).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth(), whoAmI)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	token, err := utils.GenerateToken(7, utils.RoleCustomer)
	require.NoError(t, err)
	w = doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "expired.or.bogus").Code)
}

func TestRoleCheck(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(), RoleCheck(utils.RoleCustomer), whoAmI)

	adminToken, _ := utils.GenerateToken(1, utils.RoleAdmin)
	customerToken, _ := utils.GenerateToken(2, utils.RoleCustomer)

	assert.Equal(t, http.StatusForbidden, doRequest(r, adminToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, customerToken).Code)
}

func TestRateLimiterBlocksBurst(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := gin.New()
	r.GET("/", limiter.RateLimit(), whoAmI)

	assert.Equal(t, http.StatusOK, doRequest(r, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "").Code)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRateLimiterKeepsVisitorState(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)

	first := limiter.limiterFor("10.0.0.1")
	second := limiter.limiterFor("10.0.0.1")
	assert.Same(t, first, second)
	assert.True(t, first.Allow())
	assert.False(t, second.Allow())

	// Visitor lama dibuang saat IP baru datang
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * limiter.idleTTL)
	limiter.limiterFor("10.0.0.2")
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := doRequest(r, "")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "img-src 'self' data:")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Body.String())
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://toko.example.com"}))
	r.GET("/", whoAmI)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://toko.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://toko.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
