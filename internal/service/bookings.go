package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Leganyst/rental-console/internal/availability"
	"github.com/Leganyst/rental-console/internal/calendar"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/finance"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/metrics"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// ShortageError — бронь не помещается в остаток склада. Считается ошибкой валидации.
type ShortageError struct {
	Date      string
	StartTime string
	EndTime   string
	Shortages []availability.Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: available %d, requested %d", s.ItemName, s.Available, s.Requested))
	}
	return fmt.Sprintf("insufficient stock on %s (%s-%s): %s", e.Date, e.StartTime, e.EndTime, strings.Join(parts, "; "))
}

func (e *ShortageError) Unwrap() []error {
	return []error{domain.ErrValidation, ErrInsufficientStock}
}

// AddressSource: откуда брать адрес мероприятия.
type AddressSource string

const (
	AddressManual AddressSource = "manual"
	AddressClient AddressSource = "client"
	AddressParty  AddressSource = "party"
)

// данные формы брони
type BookingInput struct {
	domain.Booking
	AddressSource AddressSource `json:"addressSource,omitempty"`
}

// SaveBooking проверяет и сохраняет бронь. editingID != "" означает правку существующей.
// Проверки идут в порядке: клиент, событие/дата/время, способ и статус оплаты,
// порядок времени, остаток склада. Ни одна невалидная бронь до хранилища не доходит.
func (c *Console) SaveBooking(ctx context.Context, input BookingInput, editingID string) (domain.Booking, error) {
	if editingID != "" {
		if _, ok := c.findBooking(editingID); !ok {
			return domain.Booking{}, fmt.Errorf("booking %s: %w", editingID, domain.ErrNotFound)
		}
	}

	b, err := c.validateBooking(input, editingID)
	if err != nil {
		var shortage *ShortageError
		if errors.As(err, &shortage) {
			metrics.IncBookingRejected("shortage")
		} else {
			metrics.IncBookingRejected("validation")
		}
		return domain.Booking{}, err
	}

	op, typ := "create", model.EventTypeBookingCreated
	if editingID != "" {
		b.ID = editingID
		op, typ = "update", model.EventTypeBookingUpdated
	} else {
		b.ID = c.newID()
	}

	saved, err := saveOne(ctx, c, repository.TableBookings, mapper.KindBooking, b, mapper.DecodeBooking)
	if err != nil {
		return domain.Booking{}, err
	}

	c.mu.Lock()
	c.bookings = replaceOrAppend(c.bookings, saved, func(x domain.Booking) string { return x.ID })
	c.mu.Unlock()

	metrics.IncBookingSaved(op)
	c.trail(ctx, typ, repository.TableBookings, saved.ID,
		fmt.Sprintf("%s %s %s-%s", saved.ClientID, saved.Date, saved.StartTime, saved.EndTime))
	c.log.Info("booking saved",
		slog.String("op", op),
		slog.String("id", saved.ID),
		slog.String("date", saved.Date),
	)
	return saved, nil
}

func (c *Console) validateBooking(input BookingInput, editingID string) (domain.Booking, error) {
	b := input.Booking
	b.ClientID = strings.TrimSpace(b.ClientID)
	b.EventName = strings.TrimSpace(b.EventName)
	b.PaymentMethod = strings.TrimSpace(b.PaymentMethod)
	b.Observations = strings.TrimSpace(b.Observations)
	b.Items = domain.PositiveItems(b.Items)

	if b.ClientID == "" {
		return b, domain.NewValidationError("clientId", "select a client before booking", mapper.ErrMissingClientReference)
	}
	client, ok := c.findClient(b.ClientID)
	if !ok {
		return b, domain.NewValidationError("clientId", fmt.Sprintf("client %s does not exist", b.ClientID), domain.ErrNotFound)
	}

	switch {
	case b.EventName == "":
		return b, domain.NewValidationError("eventName", "event name is required", nil)
	case b.Date == "":
		return b, domain.NewValidationError("date", "date is required", nil)
	case b.StartTime == "" || b.EndTime == "":
		return b, domain.NewValidationError("startTime", "start and end time are required", nil)
	}
	if _, err := time.Parse(time.DateOnly, b.Date); err != nil {
		return b, domain.NewValidationError("date", "date must be YYYY-MM-DD", err)
	}
	if b.PaymentMethod == "" {
		return b, domain.NewValidationError("paymentMethod", "payment method is required", nil)
	}
	if !b.PaymentStatus.Valid() {
		return b, domain.NewValidationError("paymentStatus", fmt.Sprintf("unknown payment status %q", b.PaymentStatus), nil)
	}
	if err := availability.ValidateWindow(b.StartTime, b.EndTime); err != nil {
		return b, err
	}
	if b.Price.IsNegative() {
		return b, domain.NewValidationError("price", "price must not be negative", nil)
	}

	switch input.AddressSource {
	case AddressClient:
		b.EventAddress = client.Address
	case AddressParty:
		if client.PartyAddress != nil {
			b.EventAddress = *client.PartyAddress
		} else {
			b.EventAddress = domain.Address{}
		}
	case AddressManual, "":
		b.EventAddress = trimAddress(b.EventAddress)
	default:
		return b, domain.NewValidationError("addressSource", fmt.Sprintf("unknown address source %q", input.AddressSource), nil)
	}

	c.mu.RLock()
	shortages := availability.Check(c.inventory, c.bookings, b, editingID)
	c.mu.RUnlock()
	if len(shortages) > 0 {
		return b, &ShortageError{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime, Shortages: shortages}
	}
	return b, nil
}

// DeleteBooking удаляет бронь.
func (c *Console) DeleteBooking(ctx context.Context, id string) error {
	if _, ok := c.findBooking(id); !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err := c.deleteOne(ctx, repository.TableBookings, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.bookings = removeByID(c.bookings, id, func(x domain.Booking) string { return x.ID })
	c.mu.Unlock()

	metrics.IncBookingSaved("delete")
	c.trail(ctx, model.EventTypeBookingDeleted, repository.TableBookings, id, "")
	return nil
}

func (c *Console) Booking(id string) (domain.Booking, error) {
	b, ok := c.findBooking(id)
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// Bookings возвращает все брони по дате и времени начала.
func (c *Console) Bookings() []domain.Booking {
	c.mu.RLock()
	out := make([]domain.Booking, len(c.bookings))
	copy(out, c.bookings)
	c.mu.RUnlock()

	calendar.SortBookings(out)
	return out
}

// Agenda возвращает брони одного дня по времени начала.
func (c *Console) Agenda(date string) []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return calendar.Agenda(c.bookings, date)
}

// AvailabilityForWindow считает остаток по позициям на интервал; excludeID исключает бронь из расчёта.
func (c *Console) AvailabilityForWindow(date, start, end, excludeID string) (map[string]int, error) {
	if err := availability.ValidateWindow(start, end); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return availability.ForWindow(c.inventory, c.bookings, date, start, end, excludeID), nil
}

// AvailabilityForDay считает остаток по позициям без учёта времени.
func (c *Console) AvailabilityForDay(date string) map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return availability.ForDay(c.inventory, c.bookings, date)
}

// FinancialReport строит отчёт за год year. year == 0 означает текущий год.
func (c *Console) FinancialReport(period finance.Period, year int) finance.Report {
	if year == 0 {
		year = c.now().Year()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return finance.Build(c.bookings, c.inventory, len(c.clients), period, year)
}

func (c *Console) findBooking(id string) (domain.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}
