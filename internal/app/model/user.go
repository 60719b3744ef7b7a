package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Nickname     string         `gorm:"uniqueIndex;not null" json:"nickname"`
	Phone        string         `json:"phone"`
	ProfileImage string         `json:"profile_image"`
	Address      string         `gorm:"type:text" json:"address"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []Item `gorm:"foreignKey:OwnerID" json:"items,omitempty"`
}

func (User) TableName() string {
	return "users"
}
