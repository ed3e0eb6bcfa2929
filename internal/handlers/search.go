package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/response"
	"github.com/edubridge/university-lms/internal/search"
)

type SearchHandler struct {
	Indexer *search.Indexer
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	query := c.QueryParam("q")
	if query == "" {
		return response.Fail(c, http.StatusBadRequest, "Query parameter 'q' is required")
	}
	page, size, offset, limit := pageParams(c)

	total, courses, err := h.Indexer.SearchCourses(ctx, query, offset, limit)
	if err != nil {
		l.Error("search_failed", "error", err)
		return response.Fail(c, http.StatusInternalServerError, "Something went wrong, Please try again later!")
	}
	return response.Paginated(c, courses,
		response.Pagination{Page: page, Size: size, Total: total},
		"Courses retrieved successfully")
}
