package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

type InstructorHandler struct {
	Instructors *service.Instructors
}

func NewInstructorHandler(instructors *service.Instructors) *InstructorHandler {
	return &InstructorHandler{Instructors: instructors}
}

type instructorReq struct {
	Name           string `json:"name" validate:"required,notblank"`
	Email          string `json:"email" validate:"omitempty,email"`
	Bio            string `json:"bio"`
	Certifications string `json:"certifications"`
}

func (h *InstructorHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Instructors.List(ctx)
	return list(c, items, err)
}

func (h *InstructorHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	in, err := h.Instructors.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *InstructorHandler) Create(c echo.Context) error {
	var req instructorReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	in := &model.Instructor{Name: req.Name, Email: req.Email, Bio: req.Bio, Certifications: req.Certifications}
	if err := h.Instructors.Create(ctx, in); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, in)
}

func (h *InstructorHandler) Update(c echo.Context) error {
	var req instructorReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	in := &model.Instructor{ID: c.Param("id"), Name: req.Name, Email: req.Email, Bio: req.Bio, Certifications: req.Certifications}
	if err := h.Instructors.Update(ctx, in); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *InstructorHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Instructors.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
