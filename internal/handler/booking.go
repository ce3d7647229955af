package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/api"
	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/repository"
)

var (
	errNotOwnEmail   = errors.New("bookings belong to another account")
	errEmailRequired = errors.New("email is required")
)

// BookingHandler exposes the legacy booking flow through the api facade.
// Customers only see and create bookings under their own account email.
type BookingHandler struct {
	API   *api.Facade
	Users UserStore
}

func NewBookingHandler(facade *api.Facade, users UserStore) *BookingHandler {
	return &BookingHandler{API: facade, Users: users}
}

type bookingReq struct {
	Email    string   `json:"email" validate:"omitempty,email"`
	ClassIDs []string `json:"classIds"`
}

func facadeError(c echo.Context, err error) error {
	return c.JSON(api.StatusOf(err), echo.Map{"error": errorMessage(err)})
}

func errorMessage(err error) string {
	if apiErr, ok := err.(*api.Error); ok {
		return apiErr.Message
	}
	return err.Error()
}

// bookingEmail returns the address a request may act on. An ADMIN must name
// one; a customer gets their account email and may only repeat it.
func (h *BookingHandler) bookingEmail(ctx context.Context, c echo.Context, requested string) (string, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if middleware.Role(c) == model.RoleAdmin {
		if requested == "" {
			return "", errEmailRequired
		}
		return requested, nil
	}
	uid, err := getUserID(c)
	if err != nil {
		return "", err
	}
	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", errUnauthenticated
	}
	if err != nil {
		return "", err
	}
	if requested != "" && requested != strings.ToLower(u.Email) {
		return "", errNotOwnEmail
	}
	return u.Email, nil
}

func emailError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, errNotOwnEmail):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, errEmailRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return fail(c, err)
}

// Create books the listed class instances. An empty classIds list is a 400.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	email, err := h.bookingEmail(ctx, c, req.Email)
	if err != nil {
		return emailError(c, err)
	}
	b, err := h.API.CreateBooking(ctx, email, req.ClassIDs)
	if err != nil {
		return facadeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) ListByEmail(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	email, err := h.bookingEmail(ctx, c, c.QueryParam("email"))
	if err != nil {
		return emailError(c, err)
	}
	items, err := h.API.GetBookingsByEmail(ctx, email)
	if err != nil {
		return facadeError(c, err)
	}
	return list(c, items, nil)
}
