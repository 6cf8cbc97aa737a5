package models

import "time"

type Client struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	TaxID        string    `gorm:"size:18;not null;uniqueIndex" json:"taxId"` // CPF or CNPJ, digits only
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Email        string    `gorm:"size:100" json:"email"`
	DefaultValue float64   `gorm:"type:decimal(10,2);default:0.0" json:"defaultValue"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`

	Sessions []Session      `gorm:"foreignKey:ClientID" json:"-"`
	History  []HistoryEntry `gorm:"foreignKey:ClientID" json:"-"`
}
