package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleOwner  = "owner"  // Propietario: владеет автомобилями и публикует оферты
	RoleDriver = "driver" // Conductor: откликается на оферты
	RoleAdmin  = "admin"  // Только в токене, строки в БД нет
)

type User struct {
	ID        uint   `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	FirstName string `json:"firstName" gorm:"column:first_name;not null;type:varchar(255)"`
	LastName  string `json:"lastName" gorm:"column:last_name;not null;type:varchar(255)"`
	Email     string `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	Phone     string `json:"phone" gorm:"column:phone;not null;type:varchar(20)"`
	Password  string `json:"-" gorm:"column:password;not null;type:varchar(255)"`
	Role      string `json:"role" gorm:"column:role;not null;type:varchar(20)"`
	PhotoUrl  string `json:"photoUrl" gorm:"column:photo_url;type:text"`
	// Отображаемые поля репутации. Заполняются внешним сервисом, здесь не считаются.
	Level           string    `json:"level" gorm:"column:level;default:'Plata';type:varchar(20)"`
	ReputationScore float64   `json:"reputation_score" gorm:"column:reputation_score;default:0"`
	TotalReviews    int       `json:"total_reviews" gorm:"column:total_reviews;default:0"`
	CareerPoints    int       `json:"career_points" gorm:"column:career_points;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	PhotoUrl  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AfterFind вызывается после загрузки модели из базы данных
func (u *User) AfterFind(tx *gorm.DB) error {
	if u.PhotoUrl == "" {
		return nil
	}

	if u.PhotoUrl[0] != '/' {
		u.PhotoUrl = "/" + u.PhotoUrl
	}

	return nil
}
