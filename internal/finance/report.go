// Package finance строит финансовый отчёт по броням за год.
package finance

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leganyst/rental-console/internal/domain"
)

// Period — гранулярность строк детализации.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnual    Period = "annual"
)

var ErrUnknownPeriod = errors.New("unknown report period")

// ParsePeriod разбирает период; пустая строка означает помесячный отчёт.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodQuarterly, PeriodAnnual:
		return Period(s), nil
	default:
		return "", domain.NewValidationError("period", fmt.Sprintf("unknown period %q", s), ErrUnknownPeriod)
	}
}

type Summary struct {
	Revenue         decimal.Decimal `json:"revenue"`
	Bookings        int             `json:"bookings"`
	EstimatedRental decimal.Decimal `json:"estimatedRental"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
	MaterialsCost   decimal.Decimal `json:"materialsCost"`
	NetResult       decimal.Decimal `json:"netResult"`
	ActiveClients   int             `json:"activeClients"`
}

// Row: строка детализации за один месяц, квартал или год.
type Row struct {
	Key             string          `json:"key"`
	Bookings        int             `json:"bookings"`
	Total           decimal.Decimal `json:"total"`
	EstimatedRental decimal.Decimal `json:"estimatedRental"`
	Paid            decimal.Decimal `json:"paid"`
	Pending         decimal.Decimal `json:"pending"`
	Partial         decimal.Decimal `json:"partial"`
}

type Report struct {
	Period  Period  `json:"period"`
	Year    int     `json:"year"`
	Summary Summary `json:"summary"`
	Rows    []Row   `json:"rows"`
}

// Build считает отчёт. Учитываются только брони года year с ценой > 0.
// Стоимость склада считается по всем позициям независимо от броней.
func Build(bookings []domain.Booking, inventory []domain.InventoryItem, clientCount int, period Period, year int) Report {
	items := make(map[string]domain.InventoryItem, len(inventory))
	stock := decimal.Zero
	for _, it := range inventory {
		items[it.ID] = it
		stock = stock.Add(it.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	report := Report{
		Period: period,
		Year:   year,
		Summary: Summary{
			InventoryValue: stock,
			ActiveClients:  clientCount,
		},
		Rows: []Row{},
	}

	rows := map[string]*Row{}
	for _, b := range bookings {
		date, err := time.Parse(time.DateOnly, b.Date)
		if err != nil || date.Year() != year || !b.Price.IsPositive() {
			continue
		}

		rental, cost := itemTotals(b, items)

		s := &report.Summary
		s.Revenue = s.Revenue.Add(b.Price)
		s.Bookings++
		s.EstimatedRental = s.EstimatedRental.Add(rental)
		s.MaterialsCost = s.MaterialsCost.Add(cost)

		key := periodKey(date, period)
		row, ok := rows[key]
		if !ok {
			row = &Row{Key: key}
			rows[key] = row
		}
		row.Bookings++
		row.Total = row.Total.Add(b.Price)
		row.EstimatedRental = row.EstimatedRental.Add(rental)
		switch b.PaymentStatus {
		case domain.PaymentStatusPaid:
			row.Paid = row.Paid.Add(b.Price)
		case domain.PaymentStatusPending:
			row.Pending = row.Pending.Add(b.Price)
		case domain.PaymentStatusPartial:
			row.Partial = row.Partial.Add(b.Price)
		}
	}
	report.Summary.NetResult = report.Summary.Revenue.Sub(report.Summary.MaterialsCost)

	for _, row := range rows {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Key < report.Rows[j].Key })
	return report
}

// itemTotals возвращает ожидаемую выручку по прайсу и себестоимость материалов брони.
// Позиции, которых уже нет на складе, пропускаются.
func itemTotals(b domain.Booking, items map[string]domain.InventoryItem) (rental, cost decimal.Decimal) {
	for id, qty := range b.Items {
		it, ok := items[id]
		if !ok {
			continue
		}
		q := decimal.NewFromInt(int64(qty))
		rental = rental.Add(it.RentalPrice.Mul(q))
		cost = cost.Add(it.Cost.Mul(q))
	}
	return rental, cost
}

func periodKey(date time.Time, period Period) string {
	switch period {
	case PeriodQuarterly:
		return fmt.Sprintf("%d-Q%d", date.Year(), (int(date.Month())-1)/3+1)
	case PeriodAnnual:
		return fmt.Sprintf("%d", date.Year())
	default:
		return date.Format("2006-01")
	}
}
