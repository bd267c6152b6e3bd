package calendar_test

import (
	"math"
	"testing"

	"github.com/Leganyst/rental-console/internal/calendar"
	"github.com/Leganyst/rental-console/internal/domain"
)

func TestPaginate_Basic(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	page := calendar.Paginate(items, 1, 5)

	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on page 1, got %d", len(page.Items))
	}
	if page.HasPrev {
		t.Fatalf("expected HasPrev=false on first page")
	}
	if !page.HasNext {
		t.Fatalf("expected HasNext=true on first page")
	}
	if page.Total != len(items) {
		t.Fatalf("expected Total=%d, got %d", len(items), page.Total)
	}
}

func TestPaginate_LastPage(t *testing.T) {
	page := calendar.Paginate([]int{1, 2, 3, 4, 5, 6}, 2, 4)

	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(page.Items))
	}
	if !page.HasPrev || page.HasNext {
		t.Fatalf("unexpected flags: prev=%v next=%v", page.HasPrev, page.HasNext)
	}
}

func TestPaginate_DefaultsAndBounds(t *testing.T) {
	items := make([]int, 500)

	page := calendar.Paginate(items, 0, 0)
	if page.Page != 1 || page.PageSize != calendar.DefaultPageSize {
		t.Fatalf("expected defaults, got page=%d size=%d", page.Page, page.PageSize)
	}

	page = calendar.Paginate(items, 1, 10_000)
	if page.PageSize != calendar.MaxPageSize {
		t.Fatalf("expected page size capped at %d, got %d", calendar.MaxPageSize, page.PageSize)
	}

	page = calendar.Paginate(items, 100, 10)
	if len(page.Items) != 0 || page.HasNext {
		t.Fatalf("expected empty page past the end, got %d items", len(page.Items))
	}
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}

	for _, p := range []int{math.MaxInt, math.MaxInt / 20, 2} {
		page := calendar.Paginate(items, p, 20)
		if len(page.Items) != 0 {
			t.Fatalf("page %d: expected no items, got %d", p, len(page.Items))
		}
		if page.HasNext || !page.HasPrev {
			t.Fatalf("page %d: unexpected flags: prev=%v next=%v", p, page.HasPrev, page.HasNext)
		}
		if page.Page != p || page.Total != 3 {
			t.Fatalf("page %d: got page=%d total=%d", p, page.Page, page.Total)
		}
	}
}

func TestPaginate_ItemsAreCopied(t *testing.T) {
	items := []int{1, 2, 3}
	page := calendar.Paginate(items, 1, 2)
	page.Items[0] = 100

	if items[0] != 1 {
		t.Fatalf("page must not alias the source slice")
	}
}

func TestAgenda_FiltersAndSorts(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "3", Date: "2024-06-01", StartTime: "14:00"},
		{ID: "1", Date: "2024-06-02", StartTime: "08:00"},
		{ID: "2", Date: "2024-06-01", StartTime: "09:00"},
	}

	agenda := calendar.Agenda(bookings, "2024-06-01")
	if len(agenda) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(agenda))
	}
	if agenda[0].ID != "2" || agenda[1].ID != "3" {
		t.Fatalf("unexpected order: %s, %s", agenda[0].ID, agenda[1].ID)
	}
	if bookings[0].ID != "3" {
		t.Fatalf("source slice must stay untouched")
	}
}

func TestSortBookings(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "b", Date: "2024-06-02", StartTime: "08:00"},
		{ID: "a", Date: "2024-06-01", StartTime: "10:00"},
		{ID: "c", Date: "2024-06-01", StartTime: "10:00"},
		{ID: "d", Date: "2024-06-01", StartTime: "07:30"},
	}
	calendar.SortBookings(bookings)

	want := []string{"d", "a", "c", "b"}
	for i, id := range want {
		if bookings[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, bookings[i].ID)
		}
	}
}

func TestMatchClient(t *testing.T) {
	c := domain.Client{Name: "Maria Souza", CPF: "123.456.789-00"}

	cases := map[string]bool{
		"":        true,
		"maria":   true,
		"SOUZA":   true,
		"456.789": true,
		"joão":    false,
	}
	for q, want := range cases {
		if got := calendar.MatchClient(c, q); got != want {
			t.Fatalf("query %q: expected %v, got %v", q, want, got)
		}
	}
}
