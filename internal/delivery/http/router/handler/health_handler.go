package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness for load balancers and orchestration probes.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service healthy")
}
