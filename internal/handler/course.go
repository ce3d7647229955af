package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

// CatalogHandler serves courses and class instances.
type CatalogHandler struct {
	Catalog *service.Catalog
}

func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

type courseReq struct {
	Name             string         `json:"name" validate:"required,notblank,max=120"`
	Type             string         `json:"type" validate:"max=60"`
	Description      string         `json:"description"`
	DayOfWeek        string         `json:"dayOfWeek" validate:"required,weekday"`
	Time             string         `json:"time" validate:"omitempty,datetime=15:04"`
	Capacity         int            `json:"capacity" validate:"required,gt=0"`
	Duration         int            `json:"duration" validate:"required,gt=0"`
	Price            float64        `json:"price" validate:"gte=0"`
	AdditionalFields map[string]any `json:"additionalFields"`
}

func (r courseReq) course(id string) *model.Course {
	return &model.Course{
		ID:               id,
		Name:             r.Name,
		Type:             r.Type,
		Description:      r.Description,
		DayOfWeek:        r.DayOfWeek,
		Time:             r.Time,
		Capacity:         r.Capacity,
		Duration:         r.Duration,
		Price:            r.Price,
		AdditionalFields: r.AdditionalFields,
	}
}

type classInstanceReq struct {
	CourseID    string    `json:"courseId" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	TeacherName string    `json:"teacherName" validate:"required,notblank"`
	Comments    string    `json:"comments"`
	IsCancelled bool      `json:"isCancelled"`
}

// instanceUpdateReq has no courseId: an instance never moves to another course.
type instanceUpdateReq struct {
	Date        time.Time `json:"date" validate:"required"`
	TeacherName string    `json:"teacherName" validate:"required,notblank"`
	Comments    string    `json:"comments"`
	IsCancelled bool      `json:"isCancelled"`
}

func (h *CatalogHandler) ListCourses(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	courses, err := h.Catalog.ListCourses(ctx)
	return list(c, courses, err)
}

func (h *CatalogHandler) GetCourse(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	course, err := h.Catalog.GetCourse(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// CourseInstances lists every class instance of a course.
func (h *CatalogHandler) CourseInstances(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Catalog.ListClassInstances(ctx, c.Param("id"))
	return list(c, items, err)
}

// UpcomingInstances lists the class instances of a course from now on.
func (h *CatalogHandler) UpcomingInstances(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Catalog.UpcomingClassInstances(ctx, c.Param("id"))
	return list(c, items, err)
}

func (h *CatalogHandler) CreateCourse(c echo.Context) error {
	var req courseReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	course := req.course("")
	if err := h.Catalog.CreateCourse(ctx, course); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CatalogHandler) UpdateCourse(c echo.Context) error {
	var req courseReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	course := req.course(c.Param("id"))
	if err := h.Catalog.UpdateCourse(ctx, course); err != nil {
		return fail(c, err)
	}
	updated, err := h.Catalog.GetCourse(ctx, course.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCourse removes a course and every one of its class instances.
func (h *CatalogHandler) DeleteCourse(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	n, err := h.Catalog.DeleteCourse(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true, "classInstancesDeleted": n})
}

func (h *CatalogHandler) GetInstance(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	ci, err := h.Catalog.GetClassInstance(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

// CreateInstance schedules a class. The date must fall on the course's day.
func (h *CatalogHandler) CreateInstance(c echo.Context) error {
	var req classInstanceReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	ci := &model.ClassInstance{
		CourseID:    req.CourseID,
		Date:        req.Date,
		TeacherName: req.TeacherName,
		Comments:    req.Comments,
		IsCancelled: req.IsCancelled,
	}
	if err := h.Catalog.AddClassInstance(ctx, ci); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, ci)
}

// UpdateInstance rewrites a class. Cancelling it notifies the course's followers.
func (h *CatalogHandler) UpdateInstance(c echo.Context) error {
	var req instanceUpdateReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	ci := &model.ClassInstance{
		ID:          c.Param("id"),
		Date:        req.Date,
		TeacherName: req.TeacherName,
		Comments:    req.Comments,
		IsCancelled: req.IsCancelled,
	}
	if err := h.Catalog.UpdateClassInstance(ctx, ci); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ci)
}

func (h *CatalogHandler) DeleteInstance(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Catalog.DeleteClassInstance(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
