package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taxiconfianza-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError отображает ошибки сервиса в HTTP-статусы.
// Нераспознанные ошибки считаются сбоем хранилища.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": err.Error(),
	})
}

// ownerProfileID разрешает user_id из токена в id профиля владельца,
// создавая профиль при первом обращении
func ownerProfileID(c *gin.Context, svc *services.LifecycleService) (uint, bool) {
	profile, err := svc.EnsureOwnerProfile(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return profile.ID, true
}

// driverProfileID разрешает user_id из токена в id профиля водителя
func driverProfileID(c *gin.Context, svc *services.LifecycleService) (uint, bool) {
	profile, err := svc.EnsureDriverProfile(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return profile.ID, true
}

// pathID читает числовой параметр пути
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "некорректный идентификатор",
		})
		return 0, false
	}
	return uint(id), true
}
