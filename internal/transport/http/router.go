package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/handlers"
	mwauth "github.com/edubridge/university-lms/internal/middleware/auth"
)

type Deps struct {
	Auth              *mwauth.Authenticator
	AuthHandler       *handlers.AuthHandler
	CourseHandler     *handlers.CourseHandler
	StudentHandler    *handlers.StudentHandler
	CredentialHandler *handlers.CredentialHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/refresh", d.AuthHandler.Refresh)
	authGroup.POST("/forget-password", d.AuthHandler.ForgetPassword)
	authGroup.POST("/reset-password", d.AuthHandler.ResetPassword)
	authGroup.GET("/me", d.AuthHandler.Me, d.Auth.RequireLogin)

	courses := v1.Group("/courses", d.Auth.RequireLogin)
	courses.GET("", d.CourseHandler.List, d.Auth.Permission("course_read"))
	courses.GET("/:id", d.CourseHandler.Get, d.Auth.Permission("course_read"))
	courses.POST("", d.CourseHandler.Create, d.Auth.Permission("course_create"))
	courses.PUT("/:id", d.CourseHandler.Update, d.Auth.Permission("course_update"))
	courses.DELETE("/:id", d.CourseHandler.Delete, d.Auth.Permission("course_delete"))

	students := v1.Group("/students", d.Auth.RequireLogin)
	students.GET("", d.StudentHandler.List, d.Auth.Permission("student_read"))
	students.GET("/:id", d.StudentHandler.Get, d.Auth.Permission("student_read"))
	students.POST("", d.StudentHandler.Create, d.Auth.Permission("student_create"))
	students.PUT("/:id", d.StudentHandler.Update, d.Auth.Permission("student_update"))
	students.DELETE("/:id", d.StudentHandler.Delete, d.Auth.Permission("student_delete"))

	credentials := v1.Group("/credentials", d.Auth.RequireLogin)
	credentials.POST("/issue", d.CredentialHandler.Issue, d.Auth.Permission("credential_create"))
	credentials.GET("/list", d.CredentialHandler.List, d.Auth.Permission("credential_read"))
	credentials.GET("/verify/:id", d.CredentialHandler.Verify, d.Auth.Permission("credential_read"))

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search, d.Auth.RequireLogin)
	}
}
