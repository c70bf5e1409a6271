package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taxiconfianza-backend/internal/models"
	"taxiconfianza-backend/internal/routes"
	"taxiconfianza-backend/internal/services"
	"taxiconfianza-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OwnerProfile{},
		&models.DriverProfile{},
		&models.Vehicle{},
		&models.Offer{},
		&models.Application{},
		&models.Assignment{},
	))

	svc := services.NewLifecycleService(db)
	cache := services.NewOfferCache(nil)

	r := gin.New()
	api := r.Group("/api")
	routes.SetupRoutes(api, db, svc, cache)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     email,
		"password":  "secreto123",
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "owner@example.com", models.RoleOwner)

	// Повторная регистрация с тем же email
	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     "owner@example.com",
		"password":  "secreto123",
		"role":      models.RoleOwner,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Регистрация с ролью admin закрыта
	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     "admin@example.com",
		"password":  "secreto123",
		"role":      "admin",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "owner@example.com",
		"password": "secreto123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decodeBody(t, w)["token"])

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "owner@example.com",
		"password": "incorrecto",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMe(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "owner@example.com", models.RoleOwner)

	w := doRequest(t, r, http.MethodGet, "/api/session/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user, _ := decodeBody(t, w)["user"].(map[string]interface{})
	require.Equal(t, "owner@example.com", user["email"])

	w = doRequest(t, r, http.MethodGet, "/api/session/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuard(t *testing.T) {
	r := newTestRouter(t)
	driverToken := registerUser(t, r, "driver@example.com", models.RoleDriver)
	ownerToken := registerUser(t, r, "owner@example.com", models.RoleOwner)

	// Водитель не ходит по маршрутам владельца
	w := doRequest(t, r, http.MethodGet, "/api/owner/vehicles", driverToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Владелец не ходит по маршрутам водителя
	w = doRequest(t, r, http.MethodGet, "/api/driver/offers", ownerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Блокировка оферт доступна только администратору
	w = doRequest(t, r, http.MethodPatch, "/api/admin/offers/1/lock", ownerToken, gin.H{"locked": true})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarketplaceEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	ownerToken := registerUser(t, r, "owner@example.com", models.RoleOwner)
	driverToken := registerUser(t, r, "driver@example.com", models.RoleDriver)

	// Владелец регистрирует автомобиль
	w := doRequest(t, r, http.MethodPost, "/api/owner/vehicles", ownerToken, gin.H{
		"plate": "abc123",
		"model": "Chevrolet Spark",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vehicle, _ := decodeBody(t, w)["vehicle"].(map[string]interface{})
	require.Equal(t, "ABC123", vehicle["plate"])
	vehicleID := uint(vehicle["id"].(float64))

	// Публикация оферты
	w = doRequest(t, r, http.MethodPost, "/api/offers", ownerToken, gin.H{
		"vehicle_id":  vehicleID,
		"title":       "Conductor turno dia",
		"city":        "Bogota",
		"shift":       "day",
		"daily_quota": 90000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	offer, _ := decodeBody(t, w)["offer"].(map[string]interface{})
	offerID := uint(offer["id"].(float64))

	// Публичная витрина видит оферту без токена
	w = doRequest(t, r, http.MethodGet, "/api/offers/active", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	offers, _ := decodeBody(t, w)["offers"].([]interface{})
	require.Len(t, offers, 1)

	// Водитель откликается
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/driver/offers/%d/apply", offerID), driverToken, gin.H{
		"message": "Disponible de inmediato",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	app, _ := decodeBody(t, w)["application"].(map[string]interface{})
	appID := uint(app["id"].(float64))

	// Повторный отклик не создаёт дубликат
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/driver/offers/%d/apply", offerID), driverToken, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	again, _ := decodeBody(t, w)["application"].(map[string]interface{})
	require.Equal(t, appID, uint(again["id"].(float64)))

	// Владелец видит отклик и принимает его
	w = doRequest(t, r, http.MethodGet, "/api/owner/applications", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	apps, _ := decodeBody(t, w)["applications"].([]interface{})
	require.Len(t, apps, 1)

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/owner/applications/%d/accept", appID), ownerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assignment, _ := decodeBody(t, w)["assignment"].(map[string]interface{})
	assignmentID := uint(assignment["id"].(float64))

	// Принятая оферта ушла с витрины
	w = doRequest(t, r, http.MethodGet, "/api/offers/active", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	offers, _ = decodeBody(t, w)["offers"].([]interface{})
	require.Empty(t, offers)

	// Повторное принятие конфликтует
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/owner/applications/%d/accept", appID), ownerToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// Завершение назначения
	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/owner/assignments/%d/finalize", assignmentID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Сводки обеих сторон
	w = doRequest(t, r, http.MethodGet, "/api/dashboard/owner", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodGet, "/api/dashboard/driver", driverToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLockOffer(t *testing.T) {
	r := newTestRouter(t)
	ownerToken := registerUser(t, r, "owner@example.com", models.RoleOwner)

	w := doRequest(t, r, http.MethodPost, "/api/owner/vehicles", ownerToken, gin.H{
		"plate": "XYZ789",
		"model": "Renault Logan",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	vehicle, _ := decodeBody(t, w)["vehicle"].(map[string]interface{})

	w = doRequest(t, r, http.MethodPost, "/api/offers", ownerToken, gin.H{
		"vehicle_id":  uint(vehicle["id"].(float64)),
		"title":       "Oferta",
		"city":        "Bogota",
		"daily_quota": 90000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	offer, _ := decodeBody(t, w)["offer"].(map[string]interface{})
	offerID := uint(offer["id"].(float64))

	adminToken, err := utils.GenerateAdminJWT()
	require.NoError(t, err)

	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/offers/%d/lock", offerID), adminToken, gin.H{
		"locked": true,
		"reason": "queja de usuario",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Заблокированная оферта скрыта с витрины
	w = doRequest(t, r, http.MethodGet, "/api/offers/active", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	offers, _ := decodeBody(t, w)["offers"].([]interface{})
	require.Empty(t, offers)

	// Владелец не может менять заблокированную оферту
	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/offers/%d", offerID), ownerToken, gin.H{
		"status": "paused",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
