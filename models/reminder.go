package models

import (
	"time"

	"gorm.io/gorm"
)

// ReminderTemplate holds the message sent ahead of a session. Placeholders:
// [ClientName], [Date], [Time].
type ReminderTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20;uniqueIndex;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReminderLog struct {
	SessionID    uint   `gorm:"index;not null"`
	ClientID     uint   `gorm:"index;not null"`
	TemplateID   uint   `gorm:"index"`
	Message      string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	Channel      string `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt       time.Time
	gorm.Model
}
