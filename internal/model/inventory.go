package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// inventory — id выводится из имени позиции
type InventoryItem struct {
	ID          string          `gorm:"type:varchar(128);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost"`
	RentalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rental_price"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory" }
