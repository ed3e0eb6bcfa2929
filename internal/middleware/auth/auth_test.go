package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
	"github.com/edubridge/university-lms/internal/tokens"
)

func newAuthenticator(t *testing.T) (*Authenticator, *repo.GormRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	ts, err := tokens.New([]byte("test-secret"), "HS256")
	require.NoError(t, err)

	r := repo.New(db)
	return &Authenticator{Repo: r, Tokens: ts, Permissions: DefaultPermissions()}, r
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func accessFor(t *testing.T, a *Authenticator, user *models.User) string {
	t.Helper()
	raw, err := a.Tokens.IssueAccess(strconv.FormatUint(uint64(user.ID), 10), user.Email)
	require.NoError(t, err)
	return raw
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string, seed func(echo.Context)) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if seed != nil {
		seed(c)
	}

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	require.NoError(t, mw(next)(c))

	if rec.Code == http.StatusOK {
		return rec, ""
	}
	var env struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env.Message
}

func TestRequireLogin(t *testing.T) {
	a, r := newAuthenticator(t)
	user := seedUser(t, r, "ann@example.com", "staff")

	rec, msg := invoke(t, a.RequireLogin, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized access", msg)

	rec, msg = invoke(t, a.RequireLogin, "Bearer not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Could not validate credentials", msg)

	rec, _ = invoke(t, a.RequireLogin, "Bearer "+accessFor(t, a, user), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The raw token without the scheme prefix is accepted too.
	rec, _ = invoke(t, a.RequireLogin, accessFor(t, a, user), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireLoginBadClaims(t *testing.T) {
	a, _ := newAuthenticator(t)

	raw, err := a.Tokens.IssueAccess("not-a-number", "ann@example.com")
	require.NoError(t, err)
	rec, msg := invoke(t, a.RequireLogin, "Bearer "+raw, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token: invalid user_id format", msg)

	raw, err = a.Tokens.IssueAccess("", "ann@example.com")
	require.NoError(t, err)
	rec, msg = invoke(t, a.RequireLogin, "Bearer "+raw, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token: no user_id found", msg)
}

func TestRequireLoginUnknownUser(t *testing.T) {
	a, _ := newAuthenticator(t)

	raw, err := a.Tokens.IssueAccess("424242", "ghost@example.com")
	require.NoError(t, err)
	rec, msg := invoke(t, a.RequireLogin, "Bearer "+raw, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "User not found", msg)
}

func TestRequireLoginStoresUser(t *testing.T) {
	a, r := newAuthenticator(t)
	user := seedUser(t, r, "ann@example.com", "staff")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessFor(t, a, user))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	next := func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, a.RequireLogin(next)(c))
	require.NotNil(t, seen)
	require.Equal(t, user.ID, seen.ID)
	require.Equal(t, "ann@example.com", seen.Email)
}

func TestPermissionGate(t *testing.T) {
	a, _ := newAuthenticator(t)

	withRole := func(role string) func(echo.Context) {
		return func(c echo.Context) {
			c.Set(userContextKey, &models.User{ID: 1, Role: role})
		}
	}

	// No authenticated user at all.
	rec, msg := invoke(t, a.Permission("course_read"), "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized access", msg)

	// A user with no role.
	rec, msg = invoke(t, a.Permission("course_read"), "", withRole(""))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Access denied: No role assigned", msg)

	// Management and admin bypass the table, even for empty entries.
	for _, role := range []string{"management", "admin", "Admin", " MANAGEMENT "} {
		rec, _ = invoke(t, a.Permission("course_delete"), "", withRole(role))
		require.Equal(t, http.StatusOK, rec.Code, "role %q", role)
	}

	// A listed role passes, an unlisted one does not.
	rec, _ = invoke(t, a.Permission("course_read"), "", withRole("staff"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, msg = invoke(t, a.Permission("course_create"), "", withRole("staff"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Access denied: Permission 'course_create' required", msg)

	// Empty table entry means management/admin only.
	rec, _ = invoke(t, a.Permission("student_delete"), "", withRole("instructor"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
