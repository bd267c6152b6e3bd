package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статус оплаты брони. Значения совпадают с теми, что хранятся в таблице bookings.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Pago"
	PaymentStatusPending PaymentStatus = "Pendente"
	PaymentStatusPartial PaymentStatus = "Parcial"
)

// Valid сообщает, входит ли статус в закрытый набор. Переходы между статусами не ограничены.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial:
		return true
	default:
		return false
	}
}

// Address — структурированный адрес. Пустые поля допустимы.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// IsZero возвращает true, если ни одно поле не заполнено.
func (a Address) IsZero() bool {
	return a == Address{}
}

type Client struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	CPF          string     `json:"cpf"`
	Address      Address    `json:"address"`
	PartyAddress *Address   `json:"partyAddress,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// ID позиции склада выводится из имени через Slug.
type InventoryItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	RentalPrice decimal.Decimal `json:"rentalPrice"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// Booking — бронь оборудования под мероприятие.
// Date хранится как "2006-01-02", StartTime/EndTime как "15:04".
type Booking struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	EventName       string          `json:"eventName"`
	Date            string          `json:"date"`
	StartTime       string          `json:"startTime"`
	EndTime         string          `json:"endTime"`
	Items           map[string]int  `json:"items"`
	Price           decimal.Decimal `json:"price"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	ContractDataURL string          `json:"contractDataUrl,omitempty"`
	EventAddress    Address         `json:"eventAddress"`
	Observations    string          `json:"observations"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

// Quantity возвращает зарезервированное количество позиции (0, если её нет в брони).
func (b Booking) Quantity(itemID string) int {
	if b.Items == nil {
		return 0
	}
	return b.Items[itemID]
}

// PositiveItems возвращает копию Items только с количествами > 0.
func PositiveItems(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for id, qty := range items {
		if qty > 0 {
			out[id] = qty
		}
	}
	return out
}
