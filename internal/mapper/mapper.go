// Package mapper переводит записи между соглашением хранилища (snake_case)
// и соглашением приложения (camelCase).
//
// Для трёх известных видов записей (client, inventoryItem, booking) используются
// явные таблицы полей: автоматическое преобразование не симметрично для некоторых
// колонок, поэтому для них эвристика не применяется. Остальные виды записей
// преобразуются общими функциями SnakeCase/CamelCase.
package mapper

import (
	"errors"
	"fmt"

	"github.com/Leganyst/rental-console/internal/domain"
)

// Record — запись в виде карты поле -> значение.
type Record map[string]any

type Kind string

const (
	KindClient        Kind = "client"
	KindInventoryItem Kind = "inventoryItem"
	KindBooking       Kind = "booking"
)

var (
	ErrMissingClientReference = errors.New("booking has no client reference")
	ErrMappingFailed          = errors.New("record mapping failed")
)

// field связывает имя поля в приложении с именем колонки в хранилище.
type field struct {
	app   string
	store string
}

var (
	clientFields = []field{
		{"id", "id"},
		{"name", "name"},
		{"phone", "phone"},
		{"email", "email"},
		{"cpf", "cpf"},
		{"address", "address"},
		{"partyAddress", "party_address"},
		{"createdAt", "created_at"},
		{"updatedAt", "updated_at"},
	}

	inventoryItemFields = []field{
		{"id", "id"},
		{"name", "name"},
		{"quantity", "quantity"},
		{"cost", "cost"},
		{"rentalPrice", "rental_price"},
		{"createdAt", "created_at"},
		{"updatedAt", "updated_at"},
	}

	bookingFields = []field{
		{"id", "id"},
		{"clientId", "client_id"},
		{"eventName", "event_name"},
		{"date", "date"},
		{"startTime", "start_time"},
		{"endTime", "end_time"},
		{"items", "items"},
		{"price", "price"},
		{"paymentMethod", "payment_method"},
		{"paymentStatus", "payment_status"},
		{"contractDataUrl", "contract_data_url"},
		{"eventAddress", "event_address"},
		{"observations", "observations"},
		{"createdAt", "created_at"},
		{"updatedAt", "updated_at"},
	}
)

func fieldsOf(kind Kind) ([]field, bool) {
	switch kind {
	case KindClient:
		return clientFields, true
	case KindInventoryItem:
		return inventoryItemFields, true
	case KindBooking:
		return bookingFields, true
	default:
		return nil, false
	}
}

// ToStoreShape переводит запись в соглашение хранилища.
// Для брони ссылка на клиента проверяется до и после преобразования.
func ToStoreShape(kind Kind, rec Record) (Record, error) {
	fields, known := fieldsOf(kind)
	if !known {
		return genericRename(rec, SnakeCase), nil
	}

	in := normalize(fields, rec)
	if kind == KindBooking && !hasValue(in, "clientId") {
		return nil, domain.NewValidationError("clientId", "client reference is required", ErrMissingClientReference)
	}

	out := make(Record, len(in))
	for _, f := range fields {
		if v, ok := in[f.app]; ok {
			out[f.store] = v
		}
	}

	if kind == KindBooking && !hasValue(out, "client_id") {
		return nil, domain.NewValidationError("client_id", "client reference lost during mapping", ErrMissingClientReference)
	}
	return out, nil
}

// ToApplicationShape выполняет обратное преобразование.
func ToApplicationShape(kind Kind, rec Record) (Record, error) {
	fields, known := fieldsOf(kind)
	if !known {
		return genericRename(rec, CamelCase), nil
	}
	out := make(Record, len(rec))
	for _, f := range fields {
		if v, ok := rec[f.store]; ok {
			out[f.app] = v
		}
	}
	return out, nil
}

// ToStoreShapeAll применяет ToStoreShape к каждой записи; первая ошибка прерывает обработку.
func ToStoreShapeAll(kind Kind, recs []Record) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	for i, rec := range recs {
		mapped, err := ToStoreShape(kind, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, mapped)
	}
	return out, nil
}

// ToApplicationShapeAll применяет ToApplicationShape к каждой записи.
func ToApplicationShapeAll(kind Kind, recs []Record) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		mapped, err := ToApplicationShape(kind, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// normalize сводит входную запись к именам приложения.
// Если поле пришло под обоими именами, побеждает имя хранилища,
// но пустое значение (nil или "") под именем хранилища считается отсутствующим.
func normalize(fields []field, rec Record) Record {
	out := make(Record, len(rec))
	for _, f := range fields {
		if v, ok := rec[f.app]; ok {
			out[f.app] = v
		}
	}
	for _, f := range fields {
		if f.store == f.app {
			continue
		}
		if hasValue(rec, f.store) {
			out[f.app] = rec[f.store]
		} else if _, ok := out[f.app]; !ok {
			if v, present := rec[f.store]; present {
				out[f.app] = v
			}
		}
	}
	return out
}

func hasValue(rec Record, key string) bool {
	v, ok := rec[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

func genericRename(rec Record, rename func(string) string) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[rename(k)] = v
	}
	return out
}
