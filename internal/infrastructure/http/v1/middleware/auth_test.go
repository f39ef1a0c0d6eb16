package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "stockpilot/internal/core/context"
)

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (v stubValidator) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.user, nil
}

func newTestRouter(validator JWTValidator, roles ...appctx.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())

	group := r.Group("/", Auth(validator))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	r := newTestRouter(stubValidator{})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := newTestRouter(stubValidator{})

	w := doRequest(r, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r := newTestRouter(stubValidator{err: errors.New("expired")})

	w := doRequest(r, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidTokenPopulatesContext(t *testing.T) {
	r := newTestRouter(stubValidator{user: &appctx.UserContext{
		UserID: "u-1",
		Role:   appctx.RoleStaff,
	}})

	w := doRequest(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     appctx.Role
		allowed  []appctx.Role
		wantCode int
	}{
		{"staff blocked from admin route", appctx.RoleStaff, []appctx.Role{appctx.RoleAdmin}, http.StatusForbidden},
		{"manager allowed on adjust route", appctx.RoleManager, []appctx.Role{appctx.RoleAdmin, appctx.RoleManager}, http.StatusOK},
		{"admin allowed everywhere", appctx.RoleAdmin, []appctx.Role{appctx.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(stubValidator{user: &appctx.UserContext{
				UserID: "u-1",
				Role:   tc.role,
			}}, tc.allowed...)

			w := doRequest(r, "Bearer good-token")
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}
