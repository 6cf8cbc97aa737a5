package models

import "time"

type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"index;not null" json:"sessionId"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    string    `gorm:"size:30" json:"method"` // cash, pix, card...
	PaidAt    time.Time `json:"paidAt"`
	Notes     string    `gorm:"type:text" json:"notes"`
}
