package handlers

import (
	"net/http"

	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateVehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Model string `json:"model" binding:"required"`
}

// GetVehicles возвращает автомобили владельца
func GetVehicles(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		vehicles, err := svc.ListVehicles(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"vehicles": vehicles,
		})
	}
}

// CreateVehicle регистрирует автомобиль владельца
func CreateVehicle(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVehicleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Неверный формат данных",
			})
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		vehicle, err := svc.CreateVehicle(c.Request.Context(), ownerID, req.Plate, req.Model)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"vehicle": vehicle,
		})
	}
}

// DeleteVehicle удаляет автомобиль владельца
func DeleteVehicle(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		if err := svc.DeleteVehicle(c.Request.Context(), ownerID, vehicleID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Автомобиль удалён",
		})
	}
}
