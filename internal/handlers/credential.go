package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/service"
)

type CredentialHandler struct {
	Service *service.CredentialService
}

func (h *CredentialHandler) Issue(c echo.Context) error {
	var in service.IssueInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if in.StudentID == 0 || in.CourseID == 0 {
		return response.Fail(c, http.StatusBadRequest, "student_id and course_id are required")
	}
	rec, err := h.Service.Issue(c.Request().Context(), in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusCreated, rec, "Credential issued successfully")
}

func (h *CredentialHandler) List(c echo.Context) error {
	page, size, offset, limit := pageParams(c)
	records, total, err := h.Service.List(c.Request().Context(), offset, limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, records,
		response.Pagination{Page: page, Size: size, Total: total},
		"Credentials retrieved successfully")
}

func (h *CredentialHandler) Verify(c echo.Context) error {
	credentialID := c.Param("id")
	if credentialID == "" {
		return response.Fail(c, http.StatusBadRequest, "Credential id is required")
	}
	cred, err := h.Service.Verify(c.Request().Context(), credentialID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, cred, "Credential verified successfully")
}
