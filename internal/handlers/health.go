package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"mailsift/internal/models"
)

// HealthHandler reports service liveness and version.
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Version:   version,
			Timestamp: time.Now().UTC(),
		})
	}
}
