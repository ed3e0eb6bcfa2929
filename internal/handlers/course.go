package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/service"
	"github.com/edubridge/university-lms/internal/util"
)

type CourseHandler struct {
	Service *service.CourseService
}

func pathID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func pageParams(c echo.Context) (page, size, offset, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	offset, limit = util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	return page, limit, offset, limit
}

func (h *CourseHandler) Create(c echo.Context) error {
	var in service.CourseInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	course, err := h.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusCreated, course, "Course created successfully")
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid course id")
	}
	course, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, course, "Course retrieved successfully")
}

func (h *CourseHandler) List(c echo.Context) error {
	page, size, offset, limit := pageParams(c)
	courses, total, err := h.Service.List(c.Request().Context(), offset, limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, courses,
		response.Pagination{Page: page, Size: size, Total: total},
		"Courses retrieved successfully")
}

func (h *CourseHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid course id")
	}
	var in service.CourseInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	course, err := h.Service.Update(c.Request().Context(), id, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, course, "Course updated successfully")
}

func (h *CourseHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Fail(c, http.StatusBadRequest, "Invalid course id")
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, nil, "Course deleted successfully")
}
