package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coding-club/internal/model"
	"coding-club/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx)
	require.Error(t, err)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx)
	require.Error(t, err)

	// valid token
	tok, err := service.IssueAccessToken(model.User{ID: 1, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	claims, err := extractClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.True(t, claims.IsAdmin())
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: 2, Role: model.RoleStudent}, time.Minute)
	require.NoError(t, err)

	// success path
	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := RequireAuth(func(c echo.Context) error {
		called = true
		require.Equal(t, 2, Claims(c).UserID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	ctx, _ = newContext("")
	called = false
	err = RequireAuth(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)

	// expired token
	expired, _ := service.IssueAccessToken(model.User{ID: 2}, -time.Minute)
	ctx, _ = newContext("Bearer " + expired)
	err = RequireAuth(func(echo.Context) error { return nil })(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	// 密碼重設令牌不能當作存取令牌
	reset, err := service.IssueResetToken("alice@example.com")
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + reset)
	called = false
	err = RequireAuth(func(echo.Context) error { called = true; return nil })(ctx)
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.False(t, called)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "adminsecret")
	adminTok, err := service.IssueAccessToken(model.User{ID: 3, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	userTok, err := service.IssueAccessToken(model.User{ID: 4, Role: model.RoleStudent}, time.Minute)
	require.NoError(t, err)

	// admin ok
	ctx, rec := newContext("Bearer " + adminTok)
	called := false
	err = RequireAdmin(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "admin") })(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// non-admin should fail
	ctx, _ = newContext("Bearer " + userTok)
	called = false
	err = RequireAdmin(func(c echo.Context) error { called = true; return nil })(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
	require.False(t, called)
}

func TestClaimsMissing(t *testing.T) {
	ctx, _ := newContext("")
	require.Nil(t, Claims(ctx))
}

func TestRequestID(t *testing.T) {
	t.Cleanup(func() { newRequestID = uuid.NewString })
	newRequestID = func() string { return "generated" }

	ctx, rec := newContext("")
	require.NoError(t, RequestID(func(echo.Context) error { return nil })(ctx))
	require.Equal(t, "generated", rec.Header().Get(echo.HeaderXRequestID))

	ctx, rec = newContext("")
	ctx.Request().Header.Set(echo.HeaderXRequestID, "from-client")
	require.NoError(t, RequestID(func(echo.Context) error { return nil })(ctx))
	require.Equal(t, "from-client", rec.Header().Get(echo.HeaderXRequestID))
}
