// Package availability считает свободный остаток позиций склада на дату и интервал времени.
// Остаток не хранится: он каждый раз пересчитывается по списку броней.
package availability

import (
	"errors"
	"sort"
	"time"

	"github.com/Leganyst/rental-console/internal/domain"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

const clockLayout = "15:04"

// Window — полуоткрытый интервал [Start, End) внутри одного дня.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow разбирает пару "HH:MM". ok=false, если хотя бы одна граница пустая или некорректная.
func ParseWindow(start, end string) (Window, bool) {
	if start == "" || end == "" {
		return Window{}, false
	}
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return Window{}, false
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return Window{}, false
	}
	return Window{Start: s, End: e}, true
}

// Полуоткрытые интервалы пересекаются, если a.Start < b.End && b.Start < a.End.
// Касание концами пересечением не считается.
func rangesOverlap(a, b Window) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Overlaps сообщает, пересекаются ли [startA, endA) и [startB, endB).
// Пустая или нераспознанная граница даёт false.
func Overlaps(startA, endA, startB, endB string) bool {
	a, ok := ParseWindow(startA, endA)
	if !ok {
		return false
	}
	b, ok := ParseWindow(startB, endB)
	if !ok {
		return false
	}
	return rangesOverlap(a, b)
}

// ValidateWindow требует, чтобы конец был строго позже начала.
func ValidateWindow(start, end string) error {
	w, ok := ParseWindow(start, end)
	if !ok {
		return domain.NewValidationError("startTime", "start and end must be HH:MM", ErrInvalidTimeRange)
	}
	if !w.End.After(w.Start) {
		return domain.NewValidationError("endTime", "end time must be after start time", ErrInvalidTimeRange)
	}
	return nil
}

// Conflicts возвращает брони той же даты, чьё время пересекается с [start, end).
// Бронь с id == excludeID пропускается.
func Conflicts(bookings []domain.Booking, date, start, end, excludeID string) []domain.Booking {
	var conflicts []domain.Booking
	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// ForWindow возвращает остаток по каждой позиции склада для интервала [start, end) даты date.
// Отрицательное значение означает перебронирование и возвращается как есть.
func ForWindow(inventory []domain.InventoryItem, bookings []domain.Booking, date, start, end, excludeID string) map[string]int {
	return remaining(inventory, Conflicts(bookings, date, start, end, excludeID))
}

// ForDay считает то же без учёта времени: учитываются все брони даты.
func ForDay(inventory []domain.InventoryItem, bookings []domain.Booking, date string) map[string]int {
	var sameDay []domain.Booking
	for _, b := range bookings {
		if b.Date == date {
			sameDay = append(sameDay, b)
		}
	}
	return remaining(inventory, sameDay)
}

func remaining(inventory []domain.InventoryItem, reserved []domain.Booking) map[string]int {
	out := make(map[string]int, len(inventory))
	for _, item := range inventory {
		left := item.Quantity
		for _, b := range reserved {
			left -= b.Quantity(item.ID)
		}
		out[item.ID] = left
	}
	return out
}

// Shortage описывает позицию, которой не хватает для брони.
type Shortage struct {
	ItemID    string `json:"itemId"`
	ItemName  string `json:"itemName"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// Check проверяет, хватает ли склада для request.
// При редактировании (editingID != "") редактируемая бронь исключается из расчёта,
// так что уже удерживаемое ею количество возвращается в остаток.
// Неизвестная позиция считается доступной в количестве 0.
func Check(inventory []domain.InventoryItem, bookings []domain.Booking, request domain.Booking, editingID string) []Shortage {
	left := ForWindow(inventory, bookings, request.Date, request.StartTime, request.EndTime, editingID)

	names := make(map[string]string, len(inventory))
	for _, item := range inventory {
		names[item.ID] = item.Name
	}

	var shortages []Shortage
	for id, qty := range request.Items {
		if qty <= 0 {
			continue
		}
		if avail := left[id]; qty > avail {
			name, ok := names[id]
			if !ok {
				name = id
			}
			shortages = append(shortages, Shortage{ItemID: id, ItemName: name, Available: avail, Requested: qty})
		}
	}
	sort.Slice(shortages, func(i, j int) bool { return shortages[i].ItemID < shortages[j].ItemID })
	return shortages
}
