package models

import (
	"time"

	"agenda-backend/utils"

	"gorm.io/gorm"
)

// User is the practice operator. There is exactly one, seeded from config.
type User struct {
	Username  string `gorm:"size:100;uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
