package services

import (
	"context"
	"errors"
	"fmt"

	"taxiconfianza-backend/internal/models"

	"gorm.io/gorm"
)

// OwnerDashboard — сводка владельца для главного экрана
type OwnerDashboard struct {
	ActiveOffers        int64                        `json:"active_offers"`
	PendingApplications int64                        `json:"pending_applications"`
	ActiveAssignments   int64                        `json:"active_assignments"`
	CurrentAssignment   *models.AssignmentResponse   `json:"current_assignment,omitempty"`
	RecentApplications  []models.ApplicationResponse `json:"recent_applications"`
}

// GetOwnerDashboard собирает KPI владельца: активные оферты, нерассмотренные
// отклики, действующие назначения и последние десять откликов
func (s *LifecycleService) GetOwnerDashboard(ctx context.Context, ownerID uint) (*OwnerDashboard, error) {
	dash := &OwnerDashboard{RecentApplications: []models.ApplicationResponse{}}

	err := s.db.WithContext(ctx).Model(&models.Offer{}).
		Where("owner_id = ? AND status = ? AND deleted_at IS NULL", ownerID, models.OfferStatusActive).
		Count(&dash.ActiveOffers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN offers ON offers.id = applications.offer_id").
		Where("offers.owner_id = ? AND offers.deleted_at IS NULL", ownerID).
		Where("applications.status IN ?",
			[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusPreselected}).
		Count(&dash.PendingApplications).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("owner_id = ? AND status = ?", ownerID, models.AssignmentStatusActive).
		Count(&dash.ActiveAssignments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Последнее действующее назначение
	var assignment models.Assignment
	err = s.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.AssignmentStatusActive).
		Preload("Offer").
		Preload("Vehicle").
		Preload("Driver.User").
		Order("start_date DESC").
		First(&assignment).Error
	if err == nil {
		resp := assignmentToResponse(assignment)
		dash.CurrentAssignment = &resp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var apps []models.Application
	err = s.db.WithContext(ctx).
		Joins("JOIN offers ON offers.id = applications.offer_id").
		Where("offers.owner_id = ? AND offers.deleted_at IS NULL", ownerID).
		Preload("Offer").
		Preload("Driver.User").
		Order("applications.created_at DESC").
		Limit(10).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for _, app := range apps {
		dash.RecentApplications = append(dash.RecentApplications, applicationToResponse(app))
	}

	return dash, nil
}

// DriverDashboard — сводка водителя. Поля репутации отображаются
// как есть, здесь они не вычисляются.
type DriverDashboard struct {
	PendingApplications  int64                        `json:"pending_applications"`
	AcceptedApplications int64                        `json:"accepted_applications"`
	Level                string                       `json:"level"`
	ReputationScore      float64                      `json:"reputation_score"`
	TotalReviews         int                          `json:"total_reviews"`
	CareerPoints         int                          `json:"career_points"`
	CurrentAssignment    *models.AssignmentResponse   `json:"current_assignment,omitempty"`
	RecentApplications   []models.ApplicationResponse `json:"recent_applications"`
}

// GetDriverDashboard собирает сводку водителя: отклики в работе,
// принятые отклики, действующее назначение и репутацию
func (s *LifecycleService) GetDriverDashboard(ctx context.Context, driverID uint) (*DriverDashboard, error) {
	dash := &DriverDashboard{RecentApplications: []models.ApplicationResponse{}}

	var profile models.DriverProfile
	err := s.db.WithContext(ctx).Preload("User").First(&profile, driverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: профиль водителя", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	dash.Level = profile.User.Level
	dash.ReputationScore = profile.User.ReputationScore
	dash.TotalReviews = profile.User.TotalReviews
	dash.CareerPoints = profile.User.CareerPoints

	err = s.db.WithContext(ctx).Model(&models.Application{}).
		Where("driver_id = ? AND status IN ?", driverID,
			[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusPreselected}).
		Count(&dash.PendingApplications).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.db.WithContext(ctx).Model(&models.Application{}).
		Where("driver_id = ? AND status = ?", driverID, models.ApplicationStatusAccepted).
		Count(&dash.AcceptedApplications).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var assignment models.Assignment
	err = s.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID, models.AssignmentStatusActive).
		Preload("Offer").
		Preload("Vehicle").
		Preload("Driver.User").
		Order("start_date DESC").
		First(&assignment).Error
	if err == nil {
		resp := assignmentToResponse(assignment)
		dash.CurrentAssignment = &resp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var apps []models.Application
	err = s.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Preload("Offer").
		Order("created_at DESC").
		Limit(10).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for _, app := range apps {
		dash.RecentApplications = append(dash.RecentApplications, applicationToResponse(app))
	}

	return dash, nil
}

// ListAssignmentsForOwner возвращает назначения владельца, новые первыми
func (s *LifecycleService) ListAssignmentsForOwner(ctx context.Context, ownerID uint) ([]models.AssignmentResponse, error) {
	var assignments []models.Assignment
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Preload("Offer").
		Preload("Vehicle").
		Preload("Driver.User").
		Order("start_date DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, assignmentToResponse(a))
	}
	return response, nil
}

func assignmentToResponse(a models.Assignment) models.AssignmentResponse {
	resp := models.AssignmentResponse{
		ID:           a.ID,
		OfferID:      a.OfferID,
		OwnerID:      a.OwnerID,
		DriverID:     a.DriverID,
		VehicleID:    a.VehicleID,
		Status:       a.Status,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		OfferTitle:   a.Offer.Title,
		City:         a.Offer.City,
		VehiclePlate: a.Vehicle.Plate,
	}
	if a.Driver.User.ID != 0 {
		resp.DriverName = a.Driver.User.FirstName + " " + a.Driver.User.LastName
	}
	return resp
}
