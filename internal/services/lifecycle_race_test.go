package services

import (
	"context"
	"path/filepath"
	"testing"

	"taxiconfianza-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Сервис на файловой БД: конкурирующие вызовы идут через разные
// соединения пула, как в продакшене.
func newFileTestService(t *testing.T) *LifecycleService {
	t.Helper()

	path := filepath.Join(t.TempDir(), "marketplace.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
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

	return NewLifecycleService(db)
}

// Принятие, зафиксированное между чтением отклика и обновлением его статуса,
// не перезаписывается предварительным выбором: у закрытой оферты всегда
// остаётся ровно один принятый отклик.
func TestPreselectAfterConcurrentAccept(t *testing.T) {
	s := newFileTestService(t)
	ctx := context.Background()

	ownerID := seedOwner(t, s, "owner@example.com")
	offer := seedOffer(t, s, ownerID, seedVehicle(t, s, ownerID, "ABC123"), "Bogota")
	driverID := seedDriver(t, s, "driver@example.com")
	app, err := s.SubmitApplication(ctx, driverID, offer.ID, "", "")
	require.NoError(t, err)

	// Конкурирующее принятие вклинивается после чтения отклика,
	// но до обновления статуса
	accepted := false
	require.NoError(t, s.db.Callback().Update().Before("gorm:update").Register("accept_midway", func(tx *gorm.DB) {
		if accepted || tx.Statement.Table != "applications" {
			return
		}
		accepted = true
		_, err := s.AcceptApplication(ctx, ownerID, app.ID)
		require.NoError(t, err)
	}))

	err = s.PreselectApplication(ctx, ownerID, app.ID)
	require.ErrorIs(t, err, ErrConflict)

	var gotApp models.Application
	require.NoError(t, s.db.First(&gotApp, app.ID).Error)
	require.Equal(t, models.ApplicationStatusAccepted, gotApp.Status)

	var gotOffer models.Offer
	require.NoError(t, s.db.First(&gotOffer, offer.ID).Error)
	require.Equal(t, models.OfferStatusClosed, gotOffer.Status)

	var acceptedCount int64
	require.NoError(t, s.db.Model(&models.Application{}).
		Where("offer_id = ? AND status = ?", offer.ID, models.ApplicationStatusAccepted).
		Count(&acceptedCount).Error)
	require.EqualValues(t, 1, acceptedCount)
}

// Предварительный выбор терминального отклика отклоняется условным
// обновлением, а не предварительной проверкой
func TestPreselectTerminalApplication(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	ownerID := seedOwner(t, s, "owner@example.com")
	offer := seedOffer(t, s, ownerID, seedVehicle(t, s, ownerID, "ABC123"), "Bogota")

	winnerID := seedDriver(t, s, "winner@example.com")
	loserID := seedDriver(t, s, "loser@example.com")
	winnerApp, err := s.SubmitApplication(ctx, winnerID, offer.ID, "", "")
	require.NoError(t, err)
	loserApp, err := s.SubmitApplication(ctx, loserID, offer.ID, "", "")
	require.NoError(t, err)

	_, err = s.AcceptApplication(ctx, ownerID, winnerApp.ID)
	require.NoError(t, err)

	require.ErrorIs(t, s.PreselectApplication(ctx, ownerID, winnerApp.ID), ErrConflict)
	require.ErrorIs(t, s.PreselectApplication(ctx, ownerID, loserApp.ID), ErrConflict)

	var gotWinner, gotLoser models.Application
	require.NoError(t, s.db.First(&gotWinner, winnerApp.ID).Error)
	require.NoError(t, s.db.First(&gotLoser, loserApp.ID).Error)
	require.Equal(t, models.ApplicationStatusAccepted, gotWinner.Status)
	require.Equal(t, models.ApplicationStatusRejected, gotLoser.Status)
}

// Сериализационный барьер принятия: если оферту закрыли между чтением
// внутри транзакции и условным закрытием, принятие откатывается целиком
// и возвращает конфликт.
func TestAcceptApplicationGuardOnConcurrentClose(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	ownerID := seedOwner(t, s, "owner@example.com")
	offer := seedOffer(t, s, ownerID, seedVehicle(t, s, ownerID, "ABC123"), "Bogota")
	driverID := seedDriver(t, s, "driver@example.com")
	app, err := s.SubmitApplication(ctx, driverID, offer.ID, "", "")
	require.NoError(t, err)

	// Оферта закрывается после чтения, но до условного обновления
	closedMidway := false
	require.NoError(t, s.db.Callback().Update().Before("gorm:update").Register("close_midway", func(tx *gorm.DB) {
		if closedMidway || tx.Statement.Table != "offers" {
			return
		}
		closedMidway = true
		inner := tx.Session(&gorm.Session{NewDB: true})
		require.NoError(t, inner.Exec(
			"UPDATE offers SET status = ? WHERE id = ?",
			models.OfferStatusClosed, offer.ID,
		).Error)
	}))

	_, err = s.AcceptApplication(ctx, ownerID, app.ID)
	require.ErrorIs(t, err, ErrConflict)

	// Транзакция откатилась целиком, включая вклинившееся закрытие
	var gotOffer models.Offer
	require.NoError(t, s.db.First(&gotOffer, offer.ID).Error)
	require.Equal(t, models.OfferStatusActive, gotOffer.Status)

	var gotApp models.Application
	require.NoError(t, s.db.First(&gotApp, app.ID).Error)
	require.Equal(t, models.ApplicationStatusPending, gotApp.Status)

	var assignments int64
	require.NoError(t, s.db.Model(&models.Assignment{}).Count(&assignments).Error)
	require.EqualValues(t, 0, assignments)

	// Повторное принятие после отката проходит
	assignment, err := s.AcceptApplication(ctx, ownerID, app.ID)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusActive, assignment.Status)
}
