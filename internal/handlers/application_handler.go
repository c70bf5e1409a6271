package handlers

import (
	"errors"
	"log"
	"net/http"

	"taxiconfianza-backend/internal/middleware"
	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubmitApplicationRequest struct {
	Message   string `json:"message"`
	ResumeURL string `json:"resume_url"`
}

// SubmitApplication — отклик водителя на активную оферту.
// Повторная подача возвращает уже существующий отклик со статусом 200.
func SubmitApplication(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req SubmitApplicationRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Неверный формат данных",
				})
				return
			}
		}

		driverID, ok := driverProfileID(c, svc)
		if !ok {
			return
		}

		app, err := svc.SubmitApplication(c.Request.Context(), driverID, offerID, req.Message, req.ResumeURL)
		if err != nil {
			respondError(c, err)
			return
		}

		middleware.ApplicationsSubmitted.Inc()

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"application": app,
		})
	}
}

// GetDriverApplications возвращает собственные отклики водителя
func GetDriverApplications(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverProfileID(c, svc)
		if !ok {
			return
		}

		apps, err := svc.ListApplicationsForDriver(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"applications": apps,
		})
	}
}

// GetOwnerApplications возвращает отклики по всем офертам владельца
func GetOwnerApplications(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		apps, err := svc.ListApplicationsForOwner(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"applications": apps,
		})
	}
}

// PreselectApplication отмечает отклик как предварительно выбранный
func PreselectApplication(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicationID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		if err := svc.PreselectApplication(c.Request.Context(), ownerID, applicationID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Отклик предварительно выбран",
		})
	}
}

// AcceptApplication принимает отклик: оферта закрывается, создаётся
// назначение, конкурирующие отклики отклоняются
func AcceptApplication(svc *services.LifecycleService, cache *services.OfferCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicationID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		assignment, err := svc.AcceptApplication(c.Request.Context(), ownerID, applicationID)
		if err != nil {
			if errors.Is(err, services.ErrConflict) {
				middleware.AcceptConflicts.Inc()
			}
			respondError(c, err)
			return
		}

		middleware.AssignmentsCreated.Inc()
		if err := cache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Ошибка при сбросе кэша оферт: %v", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":    true,
			"assignment": assignment,
		})
	}
}
