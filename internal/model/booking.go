package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// bookings. client_id — слабая ссылка без внешнего ключа: удаление клиента брони не трогает.
type Booking struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	ClientID  string `gorm:"type:varchar(64);not null;index" json:"client_id"`
	EventName string `gorm:"type:varchar(255);not null" json:"event_name"`
	Date      string `gorm:"type:varchar(10);not null;index" json:"date"`
	StartTime string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null" json:"end_time"`

	// item id -> количество
	Items datatypes.JSON `json:"items"`

	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	PaymentMethod   string          `gorm:"type:varchar(64)" json:"payment_method"`
	PaymentStatus   string          `gorm:"type:varchar(32);index" json:"payment_status"`
	ContractDataURL string          `gorm:"type:text" json:"contract_data_url"`
	EventAddress    datatypes.JSON  `json:"event_address"`
	Observations    string          `gorm:"type:text" json:"observations"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
