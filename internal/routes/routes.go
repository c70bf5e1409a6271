package routes

import (
	"taxiconfianza-backend/internal/handlers"
	"taxiconfianza-backend/internal/middleware"
	"taxiconfianza-backend/internal/models"
	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, svc *services.LifecycleService, cache *services.OfferCache) {
	// Публичные маршруты для аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.AuthRegister(db))
		auth.POST("/login", handlers.AuthLogin(db))
	}

	// Публичная витрина активных оферт
	api.GET("/offers/active", handlers.GetActiveOffers(svc, cache))

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		// Получение информации о текущем пользователе
		protected.GET("/session/me", handlers.GetCurrentUser(db))

		// Загрузка файлов (фото профиля, резюме)
		protected.POST("/upload", handlers.UploadFile)

		// Роуты владельца
		owner := protected.Group("")
		owner.Use(middleware.RequireRole(models.RoleOwner))
		{
			owner.GET("/owner/vehicles", handlers.GetVehicles(svc))
			owner.POST("/owner/vehicles", handlers.CreateVehicle(svc))
			owner.DELETE("/owner/vehicles/:id", handlers.DeleteVehicle(svc))

			owner.POST("/offers", handlers.CreateOffer(svc, cache))
			owner.GET("/owner/offers", handlers.GetOwnerOffers(svc))
			owner.PATCH("/offers/:id", handlers.UpdateOfferStatus(svc, cache))
			owner.DELETE("/offers/:id", handlers.DeleteOffer(svc, cache))

			owner.GET("/owner/applications", handlers.GetOwnerApplications(svc))
			owner.PATCH("/owner/applications/:id/preselect", handlers.PreselectApplication(svc))
			owner.POST("/owner/applications/:id/accept", handlers.AcceptApplication(svc, cache))

			owner.GET("/owner/assignments", handlers.GetOwnerAssignments(svc))
			owner.PATCH("/owner/assignments/:id/finalize", handlers.FinalizeAssignment(svc))

			owner.GET("/dashboard/owner", handlers.GetOwnerDashboard(svc))
		}

		// Роуты водителя
		driver := protected.Group("")
		driver.Use(middleware.RequireRole(models.RoleDriver))
		{
			driver.GET("/driver/offers", handlers.GetDriverOffers(svc))
			driver.POST("/driver/offers/:id/apply", handlers.SubmitApplication(svc))
			driver.GET("/driver/applications", handlers.GetDriverApplications(svc))
			driver.GET("/dashboard/driver", handlers.GetDriverDashboard(svc))
		}

		// Административные роуты
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.PATCH("/admin/offers/:id/lock", handlers.LockOffer(svc, cache))
		}
	}
}
