package model

import (
	"time"

	"gorm.io/datatypes"
)

// clients
type Client struct {
	ID    string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone string `gorm:"type:varchar(32)" json:"phone"`
	Email string `gorm:"type:varchar(255)" json:"email"`
	CPF   string `gorm:"column:cpf;type:varchar(32);index" json:"cpf"`

	Address      datatypes.JSON `json:"address"`
	PartyAddress datatypes.JSON `json:"party_address"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }
