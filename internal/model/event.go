package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeClientSaved    EventType = "client_saved"
	EventTypeClientDeleted  EventType = "client_deleted"
	EventTypeItemSaved      EventType = "item_saved"
	EventTypeItemDeleted    EventType = "item_deleted"
	EventTypeBookingCreated EventType = "booking_created"
	EventTypeBookingUpdated EventType = "booking_updated"
	EventTypeBookingDeleted EventType = "booking_deleted"
)

// events — события аудита
type Event struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`

	EventType EventType `gorm:"type:varchar(64);not null;index" json:"eventType"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`

	Table    string `gorm:"column:record_table;type:varchar(32);not null" json:"table"`
	RecordID string `gorm:"type:varchar(128);index" json:"recordId"`

	Details string `gorm:"type:text" json:"details"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
