package models

import (
	"time"
)

// Vehicle представляет автомобиль владельца.
// Номер уникален в пределах одного владельца.
type Vehicle struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	OwnerID   uint         `json:"owner_id" gorm:"not null;uniqueIndex:idx_vehicles_owner_plate"`
	Plate     string       `json:"plate" gorm:"not null;type:varchar(20);uniqueIndex:idx_vehicles_owner_plate"`
	Model     string       `json:"model" gorm:"not null;type:varchar(100)"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Owner     OwnerProfile `json:"-" gorm:"foreignKey:OwnerID"`
}
