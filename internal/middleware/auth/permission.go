package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/response"
)

// DefaultPermissions is the role policy table. Management and admin are
// not listed per permission because they bypass the table entirely.
func DefaultPermissions() map[string]map[string]bool {
	allow := func(roles ...string) map[string]bool {
		set := make(map[string]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		return set
	}
	return map[string]map[string]bool{
		"course_read":       allow("staff", "instructor"),
		"course_create":     allow("instructor"),
		"course_update":     allow("instructor"),
		"course_delete":     allow(),
		"student_read":      allow("staff", "instructor"),
		"student_create":    allow("staff"),
		"student_update":    allow("staff"),
		"student_delete":    allow(),
		"credential_read":   allow("staff", "instructor"),
		"credential_create": allow(),
	}
}

// Permission layers a role check on top of RequireLogin; it must run
// after it in the middleware chain.
func (a *Authenticator) Permission(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "permission", "permission", name)

			user := CurrentUser(c)
			if user == nil {
				l.Warn("permission_failed", "status", 401, "reason", "no authenticated user")
				return response.Fail(c, 401, "Unauthorized access")
			}

			role := strings.ToLower(strings.TrimSpace(user.Role))
			if role == "" {
				l.Warn("permission_failed", "status", 403, "reason", "no role assigned", "user_id", user.ID)
				return response.Fail(c, 403, "Access denied: No role assigned")
			}
			if role == "management" || role == "admin" {
				return next(c)
			}
			if allowed := a.Permissions[name]; allowed[role] {
				return next(c)
			}

			l.Warn("permission_failed", "status", 403, "role", role, "user_id", user.ID)
			return response.Fail(c, 403, "Access denied: Permission '"+name+"' required")
		}
	}
}
