// Package response writes the API's standard envelope:
// {"status": "success"|"fail", "data": ..., "message": ...}.
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/service"
)

type Pagination struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

func Success(c echo.Context, status int, data interface{}, message string) error {
	if data == nil {
		data = echo.Map{}
	}
	return c.JSON(status, echo.Map{
		"status":  "success",
		"data":    data,
		"message": message,
	})
}

func Paginated(c echo.Context, data interface{}, p Pagination, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "success",
		"data":       data,
		"pagination": p,
		"message":    message,
	})
}

func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"status":  "fail",
		"data":    echo.Map{},
		"message": message,
	})
}

// Error maps a service failure onto the envelope. Unknown errors
// collapse to a generic 500; internal detail stays in the server log.
func Error(c echo.Context, err error) error {
	se := service.AsError(err)
	return Fail(c, httpStatus(se.Code), se.Message)
}

func httpStatus(code service.Code) int {
	switch code {
	case service.CodeBadRequest:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// StatusOf exposes the mapping for tests and middleware.
func StatusOf(err error) int {
	var se *service.Error
	if errors.As(err, &se) {
		return httpStatus(se.Code)
	}
	return http.StatusInternalServerError
}
