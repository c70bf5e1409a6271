package models

import (
	"time"
)

type OfferStatus string

const (
	OfferStatusActive OfferStatus = "active" // Активная оферта, принимает отклики
	OfferStatusPaused OfferStatus = "paused" // Приостановлена владельцем
	OfferStatusClosed OfferStatus = "closed" // Закрыта вручную или при принятии отклика
)

type Shift string

const (
	ShiftDay   Shift = "day"   // Дневная смена
	ShiftNight Shift = "night" // Ночная смена
	ShiftMixed Shift = "mixed" // Смешанный график
)

// Offer представляет оферту на аренду автомобиля под работу
type Offer struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	OwnerID         uint        `json:"owner_id" gorm:"not null;index"`
	VehicleID       uint        `json:"vehicle_id" gorm:"not null"`
	Title           string      `json:"title" gorm:"not null;type:varchar(255)"`
	Description     string      `json:"description" gorm:"default:''"`
	City            string      `json:"city" gorm:"not null;type:varchar(100);index"`
	Shift           Shift       `json:"shift" gorm:"type:varchar(10);default:'day'"`
	DailyQuota      *float64    `json:"daily_quota,omitempty" gorm:"default:null"`
	OwnerPercentage *float64    `json:"owner_percentage,omitempty" gorm:"default:null"`
	Requirements    string      `json:"requirements" gorm:"default:''"`
	Status          OfferStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Locked          bool        `json:"locked" gorm:"default:false"`
	LockReason      string      `json:"lock_reason,omitempty" gorm:"default:''"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	// Мягкое удаление: запись остаётся, пока на неё ссылаются отклики и назначения
	DeletedAt    *time.Time    `json:"-" gorm:"index"`
	Owner        OwnerProfile  `json:"-" gorm:"foreignKey:OwnerID"`
	Vehicle      Vehicle       `json:"-" gorm:"foreignKey:VehicleID"`
	Applications []Application `json:"-" gorm:"foreignKey:OfferID"`
}

// OfferResponse представляет ответ API с информацией об оферте
type OfferResponse struct {
	ID              uint        `json:"id"`
	OwnerID         uint        `json:"owner_id"`
	VehicleID       uint        `json:"vehicle_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	City            string      `json:"city"`
	Shift           Shift       `json:"shift"`
	DailyQuota      *float64    `json:"daily_quota,omitempty"`
	OwnerPercentage *float64    `json:"owner_percentage,omitempty"`
	Requirements    string      `json:"requirements,omitempty"`
	Status          OfferStatus `json:"status"`
	Locked          bool        `json:"locked"`
	CreatedAt       time.Time   `json:"created_at"`
	VehiclePlate    string      `json:"vehicle_plate,omitempty"`
	VehicleModel    string      `json:"vehicle_model,omitempty"`
	OwnerName       string      `json:"owner_name,omitempty"`
	// Состояние собственного отклика водителя, если он уже откликался
	MyApplicationStatus *ApplicationStatus `json:"my_application_status,omitempty"`
	MyApplicationDate   *time.Time         `json:"my_application_date,omitempty"`
}

// ValidShift проверяет значение смены
func ValidShift(s Shift) bool {
	switch s {
	case ShiftDay, ShiftNight, ShiftMixed:
		return true
	}
	return false
}

// ValidOfferStatus проверяет значение статуса оферты
func ValidOfferStatus(s OfferStatus) bool {
	switch s {
	case OfferStatusActive, OfferStatusPaused, OfferStatusClosed:
		return true
	}
	return false
}
