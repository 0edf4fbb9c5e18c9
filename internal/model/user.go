package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole int

const (
	RoleAdmin UserRole = 1
	RoleUser  UserRole = 2
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// swagger:model User
type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name"`
	LastName    string    `gorm:"size:100;not null" json:"last_name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:128;not null" json:"-"`
	Role        UserRole  `gorm:"not null;default:2" json:"role"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.CreatedDate.IsZero() {
		u.CreatedDate = time.Now()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
