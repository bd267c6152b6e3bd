package repository

import (
	"context"
	"errors"

	"github.com/Leganyst/rental-console/internal/mapper"
)

const (
	TableClients   = "clients"
	TableInventory = "inventory"
	TableBookings  = "bookings"
)

var ErrUnknownTable = errors.New("unknown table")

// Store — внешнее хранилище записей. Записи приходят и уходят в форме хранилища (snake_case);
// перевод в форму приложения делает вызывающая сторона через mapper.
type Store interface {
	// Выборка по фильтрам на равенство. nil — все записи таблицы.
	Select(ctx context.Context, table string, filters map[string]any) ([]mapper.Record, error)
	// Вставка или обновление по id. Возвращает сохранённые записи в порядке входа.
	Upsert(ctx context.Context, table string, records []mapper.Record) ([]mapper.Record, error)
	// Удаление по id. Отсутствующая запись ошибкой не считается.
	Delete(ctx context.Context, table, id string) error
}

// KindOf возвращает вид записи для таблицы.
func KindOf(table string) (mapper.Kind, bool) {
	switch table {
	case TableClients:
		return mapper.KindClient, true
	case TableInventory:
		return mapper.KindInventoryItem, true
	case TableBookings:
		return mapper.KindBooking, true
	default:
		return "", false
	}
}
