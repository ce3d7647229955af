package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

// AdminHandler runs studio-wide maintenance.
type AdminHandler struct {
	Catalog *service.Catalog
	Sync    *service.Sync
}

func NewAdminHandler(catalog *service.Catalog, sync *service.Sync) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Sync: sync}
}

// SyncAll reloads every course and class instance and warms the cache.
func (h *AdminHandler) SyncAll(c echo.Context) error {
	res := h.Sync.SyncAll(c.Request().Context())
	code := http.StatusOK
	switch res.Message {
	case service.MsgSyncOffline, service.MsgSyncFailed:
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, res)
}

// Reset deletes every course and class instance.
func (h *AdminHandler) Reset(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Catalog.ResetAll(ctx); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reset": true})
}
