package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/logging"
	mwauth "github.com/edubridge/university-lms/internal/middleware/auth"
	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.Fail(c, http.StatusBadRequest, "Email and password are required")
	}

	result, err := h.Service.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusCreated, result, "User created successfully")
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, result, "Login successful")
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	pair, err := h.Service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, echo.Map{"tokens": pair}, "Token refreshed successfully")
}

func (h *AuthHandler) ForgetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.Service.ForgetPassword(ctx, req.Email); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, nil,
		"Password reset link has been sent to your email address. Please check your inbox.")
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return response.Fail(c, http.StatusBadRequest, "Token and new password are required")
	}

	if err := h.Service.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, nil,
		"Password changed successfully. You now have full access to the platform.")
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	if user == nil {
		return response.Fail(c, http.StatusUnauthorized, "Unauthorized access")
	}
	return response.Success(c, http.StatusOK, echo.Map{"user": user}, "User retrieved successfully")
}
