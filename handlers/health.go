package handlers

import (
	"net/http"

	"fitbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check from utils.StartHealthMonitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
