package mapper

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/Leganyst/rental-console/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode переводит типизированную сущность в запись приложения.
func Encode(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMappingFailed, err)
	}
	rec := Record{}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.Join(ErrMappingFailed, err)
	}
	return rec, nil
}

// Decode заполняет dst из записи. Ошибка декодирования считается ошибкой валидации.
func Decode(rec Record, dst any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return domain.NewValidationError("", "record cannot be encoded", errors.Join(ErrMappingFailed, err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.NewValidationError("", fmt.Sprintf("record does not match %T", dst), errors.Join(ErrMappingFailed, err))
	}
	return nil
}

func DecodeClient(rec Record) (domain.Client, error) {
	var c domain.Client
	err := Decode(rec, &c)
	return c, err
}

func DecodeItem(rec Record) (domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := Decode(rec, &it)
	return it, err
}

func DecodeBooking(rec Record) (domain.Booking, error) {
	var b domain.Booking
	if err := Decode(rec, &b); err != nil {
		return b, err
	}
	if b.Items == nil {
		b.Items = map[string]int{}
	}
	return b, nil
}

func EncodeClient(c domain.Client) (Record, error)      { return Encode(c) }
func EncodeItem(it domain.InventoryItem) (Record, error) { return Encode(it) }
func EncodeBooking(b domain.Booking) (Record, error)     { return Encode(b) }
