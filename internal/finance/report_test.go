package finance

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Leganyst/rental-console/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture() ([]domain.Booking, []domain.InventoryItem) {
	inventory := []domain.InventoryItem{
		{ID: "mesa", Name: "Mesa", Quantity: 10, Cost: dec("50"), RentalPrice: dec("12.5")},
		{ID: "cadeira", Name: "Cadeira", Quantity: 40, Cost: dec("15"), RentalPrice: dec("2")},
	}
	bookings := []domain.Booking{
		{ID: "1", Date: "2024-01-10", Price: dec("300"), PaymentStatus: domain.PaymentStatusPaid,
			Items: map[string]int{"mesa": 2, "cadeira": 8}},
		{ID: "2", Date: "2024-02-05", Price: dec("150.50"), PaymentStatus: domain.PaymentStatusPending,
			Items: map[string]int{"cadeira": 10}},
		{ID: "3", Date: "2024-05-20", Price: dec("80"), PaymentStatus: domain.PaymentStatusPartial,
			Items: map[string]int{"mesa": 1, "removida": 3}},
		// не попадают в отчёт
		{ID: "4", Date: "2024-06-01", Price: decimal.Zero, PaymentStatus: domain.PaymentStatusPaid, Items: map[string]int{"mesa": 5}},
		{ID: "5", Date: "2023-12-31", Price: dec("999"), PaymentStatus: domain.PaymentStatusPaid},
		{ID: "6", Date: "sem data", Price: dec("10")},
	}
	return bookings, inventory
}

func TestBuild_Summary(t *testing.T) {
	bookings, inventory := fixture()

	r := Build(bookings, inventory, 7, PeriodMonthly, 2024)
	s := r.Summary

	assert.True(t, dec("530.50").Equal(s.Revenue), "revenue %s", s.Revenue)
	assert.Equal(t, 3, s.Bookings)
	// 2*12.5 + 8*2 + 10*2 + 1*12.5
	assert.True(t, dec("73.5").Equal(s.EstimatedRental), "estimated %s", s.EstimatedRental)
	// 10*50 + 40*15
	assert.True(t, dec("1100").Equal(s.InventoryValue), "inventory %s", s.InventoryValue)
	// 2*50 + 8*15 + 10*15 + 1*50
	assert.True(t, dec("420").Equal(s.MaterialsCost), "materials %s", s.MaterialsCost)
	assert.True(t, dec("110.50").Equal(s.NetResult), "net %s", s.NetResult)
	assert.Equal(t, 7, s.ActiveClients)
}

func TestBuild_MonthlyRows(t *testing.T) {
	bookings, inventory := fixture()

	r := Build(bookings, inventory, 0, PeriodMonthly, 2024)
	require.Len(t, r.Rows, 3)

	assert.Equal(t, "2024-01", r.Rows[0].Key)
	assert.Equal(t, "2024-02", r.Rows[1].Key)
	assert.Equal(t, "2024-05", r.Rows[2].Key)

	assert.True(t, dec("300").Equal(r.Rows[0].Paid))
	assert.True(t, r.Rows[0].Pending.IsZero())
	assert.True(t, dec("150.50").Equal(r.Rows[1].Pending))
	assert.True(t, dec("80").Equal(r.Rows[2].Partial))
}

func TestBuild_QuarterlyAndAnnual(t *testing.T) {
	bookings, inventory := fixture()

	q := Build(bookings, inventory, 0, PeriodQuarterly, 2024)
	require.Len(t, q.Rows, 2)
	assert.Equal(t, "2024-Q1", q.Rows[0].Key)
	assert.Equal(t, 2, q.Rows[0].Bookings)
	assert.True(t, dec("450.50").Equal(q.Rows[0].Total))
	assert.Equal(t, "2024-Q2", q.Rows[1].Key)

	a := Build(bookings, inventory, 0, PeriodAnnual, 2024)
	require.Len(t, a.Rows, 1)
	assert.Equal(t, "2024", a.Rows[0].Key)
	assert.Equal(t, 3, a.Rows[0].Bookings)
}

func TestBuild_EmptyYear(t *testing.T) {
	bookings, inventory := fixture()

	r := Build(bookings, inventory, 2, PeriodMonthly, 2030)
	assert.Empty(t, r.Rows)
	assert.NotNil(t, r.Rows)
	assert.Equal(t, 0, r.Summary.Bookings)
	assert.True(t, dec("1100").Equal(r.Summary.InventoryValue))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, p)

	p, err = ParsePeriod("quarterly")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarterly, p)

	_, err = ParsePeriod("weekly")
	require.ErrorIs(t, err, ErrUnknownPeriod)
	assert.True(t, domain.IsValidation(err))
}

func TestWriteXLSX(t *testing.T) {
	bookings, inventory := fixture()
	r := Build(bookings, inventory, 7, PeriodQuarterly, 2024)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, detailsSheet}, f.GetSheetList())

	year, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024", year)

	key, err := f.GetCellValue(detailsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-Q1", key)

	count, err := f.GetCellValue(detailsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", count)
}
