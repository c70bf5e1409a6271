package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taxiconfianza-backend/internal/models"

	"gorm.io/gorm"
)

// ListVehicles возвращает автомобили владельца, новые первыми
func (s *LifecycleService) ListVehicles(ctx context.Context, ownerID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return vehicles, nil
}

// CreateVehicle регистрирует автомобиль владельца.
// Номер нормализуется к верхнему регистру и уникален в пределах владельца.
func (s *LifecycleService) CreateVehicle(ctx context.Context, ownerID uint, plate, model string) (*models.Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	model = strings.TrimSpace(model)
	if plate == "" || model == "" {
		return nil, fmt.Errorf("%w: обязательны plate и model", ErrValidation)
	}

	var existing models.Vehicle
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND plate = ?", ownerID, plate).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: автомобиль с таким номером уже зарегистрирован", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	vehicle := &models.Vehicle{
		OwnerID: ownerID,
		Plate:   plate,
		Model:   model,
	}
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return vehicle, nil
}

// DeleteVehicle удаляет автомобиль владельца
func (s *LifecycleService) DeleteVehicle(ctx context.Context, ownerID, vehicleID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", vehicleID, ownerID).
		Delete(&models.Vehicle{})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: автомобиль", ErrNotFound)
	}
	return nil
}
