package models

import (
	"time"
)

type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"    // Действующее назначение
	AssignmentStatusFinalized AssignmentStatus = "finalized" // Завершено владельцем
)

// Assignment представляет рабочее назначение, созданное при принятии отклика.
// Создаётся только внутри транзакции принятия и никогда не удаляется.
type Assignment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	OfferID   uint             `json:"offer_id" gorm:"not null;index"`
	OwnerID   uint             `json:"owner_id" gorm:"not null;index"`
	DriverID  uint             `json:"driver_id" gorm:"not null;index"`
	VehicleID uint             `json:"vehicle_id" gorm:"not null"`
	Status    AssignmentStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	StartDate time.Time        `json:"start_date" gorm:"not null"`
	EndDate   *time.Time       `json:"end_date,omitempty" gorm:"default:null"`
	Notes     string           `json:"notes,omitempty" gorm:"default:''"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Offer     Offer            `json:"-" gorm:"foreignKey:OfferID"`
	Owner     OwnerProfile     `json:"-" gorm:"foreignKey:OwnerID"`
	Driver    DriverProfile    `json:"-" gorm:"foreignKey:DriverID"`
	Vehicle   Vehicle          `json:"-" gorm:"foreignKey:VehicleID"`
}

// AssignmentResponse представляет ответ API с информацией о назначении
type AssignmentResponse struct {
	ID           uint             `json:"id"`
	OfferID      uint             `json:"offer_id"`
	OwnerID      uint             `json:"owner_id"`
	DriverID     uint             `json:"driver_id"`
	VehicleID    uint             `json:"vehicle_id"`
	Status       AssignmentStatus `json:"status"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	OfferTitle   string           `json:"offer_title,omitempty"`
	City         string           `json:"city,omitempty"`
	VehiclePlate string           `json:"vehicle_plate,omitempty"`
	DriverName   string           `json:"driver_name,omitempty"`
}
