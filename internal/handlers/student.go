package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/service"
)

type StudentHandler struct {
	Service *service.StudentService
}

func (h *StudentHandler) Create(c echo.Context) error {
	var in service.StudentInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	student, err := h.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusCreated, student, "Student created successfully")
}

func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid student id")
	}
	student, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, student, "Student retrieved successfully")
}

func (h *StudentHandler) List(c echo.Context) error {
	page, size, offset, limit := pageParams(c)
	students, total, err := h.Service.List(c.Request().Context(), offset, limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, students,
		response.Pagination{Page: page, Size: size, Total: total},
		"Students retrieved successfully")
}

func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid student id")
	}
	var in service.StudentInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	student, err := h.Service.Update(c.Request().Context(), id, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, student, "Student updated successfully")
}

func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid student id")
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, nil, "Student deleted successfully")
}
