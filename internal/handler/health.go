package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness plus which backends are active, so
// operators can see at a glance when the service is running degraded on
// in-process storage.
type HealthHandler struct {
	DurableStore  bool // durable store configured and reachable at startup
	RedisSessions bool // sessions backed by Redis rather than memory
	LiveAnalyzer  bool // language-model analyzer configured
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":         "ok",
		"durableStore":   h.DurableStore,
		"redisSessions":  h.RedisSessions,
		"liveAnalyzer":   h.LiveAnalyzer,
	})
}
