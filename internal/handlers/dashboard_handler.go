package handlers

import (
	"net/http"

	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GetOwnerDashboard возвращает KPI владельца для главного экрана
func GetOwnerDashboard(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		dash, err := svc.GetOwnerDashboard(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"dashboard": dash,
		})
	}
}

// GetDriverDashboard возвращает сводку водителя
func GetDriverDashboard(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverProfileID(c, svc)
		if !ok {
			return
		}

		dash, err := svc.GetDriverDashboard(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"dashboard": dash,
		})
	}
}
