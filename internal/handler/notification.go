package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

// NotificationHandler manages course topic subscriptions and class notices.
type NotificationHandler struct {
	Notifier *service.Notifier
}

func NewNotificationHandler(n *service.Notifier) *NotificationHandler {
	return &NotificationHandler{Notifier: n}
}

func (h *NotificationHandler) Subscribe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	topic, err := h.Notifier.Subscribe(ctx, uid, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"topic": topic, "subscribed": true})
}

func (h *NotificationHandler) Unsubscribe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Notifier.Unsubscribe(ctx, uid, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Subscriptions(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Notifier.Subscriptions(ctx, uid)
	return list(c, items, err)
}

// History lists the notifications sent to a course's followers.
func (h *NotificationHandler) History(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Notifier.History(ctx, c.Param("id"))
	return list(c, items, err)
}

type notifyReq struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank"`
}

// Notify sends a notification about a class instance to its course topic.
func (h *NotificationHandler) Notify(c echo.Context) error {
	var req notifyReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	n, err := h.Notifier.SendClassNotification(ctx, c.Param("id"), req.Title, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}
