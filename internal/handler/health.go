package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/netstatus"
)

// Health is the liveness probe used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// StatusHandler reports whether the backends the app depends on are reachable.
type StatusHandler struct {
	Checker     *netstatus.Checker
	SyncEnabled bool
}

func NewStatusHandler(checker *netstatus.Checker, syncEnabled bool) *StatusHandler {
	return &StatusHandler{Checker: checker, SyncEnabled: syncEnabled}
}

// Status answers 200 when online and 503 otherwise, with the probe details.
func (h *StatusHandler) Status(c echo.Context) error {
	st := h.Checker.Snapshot(c.Request().Context())
	code := http.StatusOK
	if !st.Online {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{
		"online":      st.Online,
		"checks":      st.Checks,
		"checkedAt":   st.CheckedAt,
		"syncEnabled": h.SyncEnabled && st.Online,
	})
}
