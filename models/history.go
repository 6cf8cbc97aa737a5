package models

import "time"

type HistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"index;not null" json:"clientId"`
	Date      string    `gorm:"size:10;not null" json:"date"`
	Kind      string    `gorm:"size:20;not null" json:"kind"` // session or supervision
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
