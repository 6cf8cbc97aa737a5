package models

import "time"

// Session is one dated appointment. Sessions generated from the same booking
// share a RecurrenceID.
type Session struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	ClientID       uint     `gorm:"index;not null" json:"clientId"`
	Date           string   `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Time           string   `gorm:"size:5;not null" json:"time"`        // HH:MM
	AttendanceType string   `gorm:"size:30;not null" json:"attendanceType"`
	Frequency      string   `gorm:"size:20;not null" json:"frequency"`
	Realized       bool     `gorm:"default:false" json:"realized"`
	Paid           bool     `gorm:"default:false" json:"paid"`
	Value          *float64 `gorm:"type:decimal(10,2)" json:"value"`
	Notes          string   `gorm:"type:text" json:"notes"`
	RecurrenceID   *string  `gorm:"size:36;index" json:"recurrenceId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Client   *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:SessionID" json:"-"`
}

func (s *Session) InGroup() bool {
	return s.RecurrenceID != nil && *s.RecurrenceID != ""
}
