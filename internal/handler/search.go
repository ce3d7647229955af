package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

type SearchHandler struct {
	Search *service.Search
	Loc    *time.Location
}

func NewSearchHandler(search *service.Search, loc *time.Location) *SearchHandler {
	return &SearchHandler{Search: search, Loc: loc}
}

// Instances searches class instances by exactly one of teacher (name
// prefix), date (YYYY-MM-DD in the studio zone) or day (weekday name).
func (h *SearchHandler) Instances(c echo.Context) error {
	teacher := strings.TrimSpace(c.QueryParam("teacher"))
	date := strings.TrimSpace(c.QueryParam("date"))
	day := strings.TrimSpace(c.QueryParam("day"))

	ctx, cancel := withTimeout(c)
	defer cancel()

	var (
		items []model.ClassInstance
		err   error
	)
	switch {
	case teacher != "":
		items, err = h.Search.ByTeacher(ctx, teacher)
	case date != "":
		d, perr := time.ParseInLocation(time.DateOnly, date, h.Loc)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		items, err = h.Search.ByDate(ctx, d)
	case day != "":
		canonical, ok := model.CanonicalWeekday(day)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be a day of the week"})
		}
		items, err = h.Search.ByDay(ctx, canonical)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one of teacher, date or day is required"})
	}
	return list(c, items, err)
}

// Courses lists the courses held on a weekday.
func (h *SearchHandler) Courses(c echo.Context) error {
	day, ok := model.CanonicalWeekday(c.QueryParam("day"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be a day of the week"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	courses, err := h.Search.CoursesByDay(ctx, day)
	return list(c, courses, err)
}
