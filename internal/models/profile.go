package models

import (
	"time"
)

// OwnerProfile — профиль propietario. Создаётся лениво при первой операции владельца.
type OwnerProfile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	LegallyVerified bool      `json:"legally_verified" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            User      `json:"-" gorm:"foreignKey:UserID"`
}

// DriverProfile — профиль conductor. Создаётся лениво при первой операции водителя.
type DriverProfile struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	DocumentVerified bool      `json:"document_verified" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	User             User      `json:"-" gorm:"foreignKey:UserID"`
}
