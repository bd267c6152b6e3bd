package calendar

import (
	"sort"
	"strings"

	"github.com/Leganyst/rental-console/internal/domain"
)

// SortBookings упорядочивает брони по дате, затем по времени начала; при равенстве по id.
func SortBookings(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

// Agenda возвращает копию броней даты date, отсортированную по времени начала.
func Agenda(bookings []domain.Booking, date string) []domain.Booking {
	out := make([]domain.Booking, 0)
	for _, b := range bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	SortBookings(out)
	return out
}

// MatchClient: регистронезависимый поиск по имени или CPF. Пустой запрос совпадает со всеми.
func MatchClient(c domain.Client, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.CPF), q)
}
