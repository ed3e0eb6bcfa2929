package auth

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/tokens"
)

const userContextKey = "current_user"

// Authenticator gates protected routes: it verifies the bearer token,
// loads the user it names and stores it in the request context.
type Authenticator struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service

	// Permissions maps a permission name to the set of role names
	// allowed to use it. Loaded once at startup.
	Permissions map[string]map[string]bool
}

func (a *Authenticator) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_login")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing authorization header")
			return response.Fail(c, 401, "Unauthorized access")
		}

		claims, err := a.Tokens.Verify(header)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
			return response.Fail(c, 401, "Could not validate credentials")
		}
		if claims.UserID == "" {
			l.Warn("auth_failed", "status", 401, "reason", "no user_id claim")
			return response.Fail(c, 401, "Invalid token: no user_id found")
		}

		id, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid user_id format")
			return response.Fail(c, 401, "Invalid token: invalid user_id format")
		}

		user, err := a.Repo.FindUserByID(ctx, uint(id))
		if err != nil {
			// A store outage is not an auth failure; it surfaces as a
			// generic 500, never a panic through the pipeline.
			l.Error("auth_failed", "status", 500, "reason", "db_error", "error", err)
			return response.Fail(c, 500, "Something went wrong, Please try again later!")
		}
		if user == nil {
			l.Warn("auth_failed", "status", 401, "reason", "user not found")
			return response.Fail(c, 401, "User not found")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the user RequireLogin stored, or nil.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
