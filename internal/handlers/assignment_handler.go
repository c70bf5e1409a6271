package handlers

import (
	"net/http"

	"taxiconfianza-backend/internal/middleware"
	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// FinalizeAssignment завершает действующее назначение владельцем
func FinalizeAssignment(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		assignmentID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		if err := svc.FinalizeAssignment(c.Request.Context(), ownerID, assignmentID); err != nil {
			respondError(c, err)
			return
		}

		middleware.AssignmentsFinalized.Inc()

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Назначение завершено",
		})
	}
}

// GetOwnerAssignments возвращает назначения владельца
func GetOwnerAssignments(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerProfileID(c, svc)
		if !ok {
			return
		}

		assignments, err := svc.ListAssignmentsForOwner(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"assignments": assignments,
		})
	}
}
