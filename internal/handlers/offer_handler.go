package handlers

import (
	"log"
	"net/http"

	"taxiconfianza-backend/internal/middleware"
	"taxiconfianza-backend/internal/models"
	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateOfferRequest struct {
	VehicleID       uint     `json:"vehicle_id" binding:"required"`
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	City            string   `json:"city" binding:"required"`
	Shift           string   `json:"shift"`
	DailyQuota      *float64 `json:"daily_quota"`
	OwnerPercentage *float64 `json:"owner_percentage"`
	Requirements    string   `json:"requirements"`
	Status          string   `json:"status"`
}

type UpdateOfferStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type LockOfferRequest struct {
	Locked bool   `json:"locked"`
	Reason string `json:"reason"`
}

// CreateOffer публикует новую оферту владельца
func CreateOffer(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOfferRequest
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

		offer, err := svc.CreateOffer(c.Request.Context(), ownerID, services.CreateOfferInput{
			VehicleID:       req.VehicleID,
			Title:           req.Title,
			Description:     req.Description,
			City:            req.City,
			Shift:           models.Shift(req.Shift),
			DailyQuota:      req.DailyQuota,
			OwnerPercentage: req.OwnerPercentage,
			Requirements:    req.Requirements,
			Status:          models.OfferStatus(req.Status),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		middleware.OffersCreated.Inc()
		if err := cache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Ошибка при сбросе кэша оферт: %v", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"offer":   offer,
		})
	}
}

// GetActiveOffers возвращает публичный список активных оферт.
// Список отдаётся из кэша, при промахе читается из базы и кэшируется.
func GetActiveOffers(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cached []models.OfferResponse
		hit, err := cache.GetActiveOffers(c.Request.Context(), &cached)
		if err != nil {
			log.Printf("Ошибка при чтении кэша оферт: %v", err)
		}
		if hit {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"offers":  cached,
			})
			return
		}

		offers, err := svc.ListActiveOffers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		if err := cache.SetActiveOffers(c.Request.Context(), offers); err != nil {
			log.Printf("Ошибка при записи кэша оферт: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"offers":  offers,
		})
	}
}

// GetOwnerOffers возвращает все оферты владельца
func GetOwnerOffers(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		offers, err := svc.ListOffersForOwner(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"offers":  offers,
		})
	}
}

// GetDriverOffers возвращает активные оферты для водителя с фильтрами
// city, shift и text и состоянием собственного отклика по каждой
func GetDriverOffers(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverProfileID(c, svc)
		if !ok {
			return
		}

		offers, err := svc.ListOffersForDriver(c.Request.Context(), driverID, services.DriverOfferFilters{
			City:  c.Query("city"),
			Shift: c.Query("shift"),
			Text:  c.Query("text"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"offers":  offers,
		})
	}
}

// UpdateOfferStatus переключает статус оферты владельцем
func UpdateOfferStatus(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req UpdateOfferStatusRequest
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

		if err := svc.UpdateOfferStatus(c.Request.Context(), ownerID, offerID, models.OfferStatus(req.Status)); err != nil {
			respondError(c, err)
			return
		}

		if err := cache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Ошибка при сбросе кэша оферт: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Статус оферты обновлён",
		})
	}
}

// DeleteOffer помечает оферту владельца удалённой
func DeleteOffer(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		if err := svc.DeleteOffer(c.Request.Context(), ownerID, offerID); err != nil {
			respondError(c, err)
			return
		}

		if err := cache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Ошибка при сбросе кэша оферт: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Оферта удалена",
		})
	}
}

// LockOffer — административная блокировка оферты
func LockOffer(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req LockOfferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Неверный формат данных",
			})
			return
		}

		if err := svc.LockOffer(c.Request.Context(), offerID, req.Locked, req.Reason); err != nil {
			respondError(c, err)
			return
		}

		if err := cache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Ошибка при сбросе кэша оферт: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Блокировка оферты обновлена",
		})
	}
}
