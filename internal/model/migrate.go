package model

import "gorm.io/gorm"

// AutoMigrate создаёт таблицы хранилища и журнал аудита.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&InventoryItem{},
		&Booking{},
		&Event{},
	)
}
