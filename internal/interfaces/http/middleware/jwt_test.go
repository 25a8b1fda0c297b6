package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touchline/backend/internal/infrastructure/auth"
	"github.com/touchline/backend/internal/infrastructure/config"
	"github.com/touchline/backend/internal/infrastructure/logger"
	"github.com/touchline/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newVerifier() *auth.JWTVerifier {
	return auth.NewJWTVerifier(config.AuthConfig{
		JWTSecret:   testSecret,
		Audience:    auth.DefaultAudience,
		AdminRoles:  []string{"admin"},
		AdminEmails: []string{"coach@touchline.example"},
	})
}

func issue(t *testing.T, v *auth.JWTVerifier, in auth.IssueTokenInput) string {
	t.Helper()
	token, _, err := v.IssueToken(in)
	require.NoError(t, err)
	return token
}

func newAuthRouter(v TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	admin := router.Group("/admin", JWTAuth(JWTMiddlewareConfig{Verifier: v, Logger: zap.NewNop()}), RequireAdmin())
	admin.GET("/whoami", func(c *gin.Context) {
		p := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{
			"subject":     p.Subject,
			"ctx_subject": logger.GetSubject(c.Request.Context()),
		})
	})
	return router
}

func call(router *gin.Engine, header string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestJWTAuth(t *testing.T) {
	v := newVerifier()
	router := newAuthRouter(v)

	t.Run("admin role passes", func(t *testing.T) {
		token := issue(t, v, auth.IssueTokenInput{Subject: "user-1", AppRole: "admin"})
		w, _ := call(router, "Bearer "+token)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["subject"])
		assert.Equal(t, "user-1", body["ctx_subject"])
	})

	t.Run("allow-listed email passes", func(t *testing.T) {
		token := issue(t, v, auth.IssueTokenInput{Subject: "user-2", Email: "Coach@Touchline.example"})
		w, _ := call(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		token := issue(t, v, auth.IssueTokenInput{Subject: "user-3", Email: "parent@example.com"})
		w, resp := call(router, "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w, resp := call(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w, _ := call(router, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w, resp := call(router, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", resp.Error.Message)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTVerifier(config.AuthConfig{JWTSecret: "another-secret-another-secret-xx", Audience: auth.DefaultAudience})
		token := issue(t, other, auth.IssueTokenInput{Subject: "user-4", AppRole: "admin"})
		w, _ := call(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type stubVerifier struct{ err error }

func (s stubVerifier) Verify(string) (*auth.Principal, error) { return nil, s.err }

func TestJWTAuth_ExpiredToken(t *testing.T) {
	router := newAuthRouter(stubVerifier{err: auth.ErrExpiredToken})
	w, resp := call(router, "Bearer whatever")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, resp.Error.Code)
	assert.Equal(t, "Token has expired", resp.Error.Message)
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPrincipal_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetPrincipal(c))

	c.Set(PrincipalKey, "not a principal")
	assert.Nil(t, GetPrincipal(c))

	c.Set(PrincipalKey, &auth.Principal{Subject: "s", IsAdmin: true})
	require.NotNil(t, GetPrincipal(c))
}
