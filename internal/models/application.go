package models

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"     // Ожидает решения владельца
	ApplicationStatusPreselected ApplicationStatus = "preselected" // Отмечен владельцем как кандидат
	ApplicationStatusAccepted    ApplicationStatus = "accepted"    // Принят, создано назначение
	ApplicationStatusRejected    ApplicationStatus = "rejected"    // Не выбран
)

// Application представляет отклик водителя на оферту.
// Пара (oferta, водитель) уникальна: повторная подача возвращает существующий отклик.
type Application struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	OfferID   uint              `json:"offer_id" gorm:"not null;uniqueIndex:idx_applications_offer_driver"`
	DriverID  uint              `json:"driver_id" gorm:"not null;uniqueIndex:idx_applications_offer_driver"`
	Message   string            `json:"message" gorm:"default:''"`
	ResumeURL string            `json:"resume_url,omitempty" gorm:"default:''"`
	Status    ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Offer     Offer             `json:"-" gorm:"foreignKey:OfferID"`
	Driver    DriverProfile     `json:"-" gorm:"foreignKey:DriverID"`
}

// Terminal сообщает, допускает ли статус дальнейшие переходы
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// ApplicationResponse представляет ответ API с информацией об отклике
type ApplicationResponse struct {
	ID         uint              `json:"id"`
	OfferID    uint              `json:"offer_id"`
	DriverID   uint              `json:"driver_id"`
	Message    string            `json:"message,omitempty"`
	ResumeURL  string            `json:"resume_url,omitempty"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	OfferTitle string            `json:"offer_title,omitempty"`
	City       string            `json:"city,omitempty"`
	DriverName string            `json:"driver_name,omitempty"`
}
