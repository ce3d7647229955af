package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

type EnrollmentHandler struct {
	Enrollments *service.Enrollments
	Catalog     *service.Catalog
}

func NewEnrollmentHandler(enrollments *service.Enrollments, catalog *service.Catalog) *EnrollmentHandler {
	return &EnrollmentHandler{Enrollments: enrollments, Catalog: catalog}
}

// Spots reports capacity, booked and free places of a class instance.
func (h *EnrollmentHandler) Spots(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	ci, err := h.Catalog.GetClassInstance(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	course, err := h.Catalog.GetCourse(ctx, ci.CourseID)
	if err != nil {
		return fail(c, err)
	}
	taken, err := h.Enrollments.Taken(ctx, ci.ID)
	if err != nil {
		return fail(c, err)
	}
	free := course.Capacity - taken
	if free < 0 || ci.IsCancelled {
		free = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"classInstanceId": ci.ID,
		"capacity":        course.Capacity,
		"taken":           taken,
		"available":       free,
		"isCancelled":     ci.IsCancelled,
	})
}

// Enroll books the caller into the class instance in the path.
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	e, err := h.Enrollments.Enroll(ctx, uid, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *EnrollmentHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Enrollments.Cancel(ctx, uid, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EnrollmentHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Enrollments.ListForUser(ctx, uid)
	return list(c, items, err)
}

type attendedReq struct {
	Attended *bool `json:"attended" validate:"required"`
}

// MarkAttended records attendance for an enrollment.
func (h *EnrollmentHandler) MarkAttended(c echo.Context) error {
	var req attendedReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Enrollments.MarkAttended(ctx, c.Param("id"), *req.Attended); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "attended": *req.Attended})
}
