package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/metrics"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

// Console — рабочее пространство консоли: кэш клиентов, склада и броней
// поверх внешнего хранилища. Любое изменение сначала пишется в хранилище,
// кэш правится только после успешной записи.
//
// Мьютекс держится только на время работы с кэшем, не на время вызовов хранилища,
// поэтому две одновременные правки одной записи могут перетереть друг друга.
type Console struct {
	store repository.Store
	audit repository.AuditLog
	log   *slog.Logger
	now   func() time.Time

	mu        sync.RWMutex
	clients   []domain.Client
	inventory []domain.InventoryItem
	bookings  []domain.Booking

	idMu   sync.Mutex
	lastID int64
}

type Option func(*Console)

func WithAuditLog(a repository.AuditLog) Option {
	return func(c *Console) { c.audit = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.log = l }
}

// WithClock подменяет источник времени (генерация id, отчёты).
func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

func NewConsole(store repository.Store, opts ...Option) *Console {
	c := &Console{
		store:     store,
		audit:     repository.NopAuditLog{},
		log:       slog.Default(),
		now:       time.Now,
		clients:   []domain.Client{},
		inventory: []domain.InventoryItem{},
		bookings:  []domain.Booking{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load перечитывает все три коллекции и заменяет кэш целиком.
// Коллекция, которую не удалось прочитать, становится пустой; ошибки возвращаются
// вместе, чтобы вызывающая сторона могла о них сообщить.
func (c *Console) Load(ctx context.Context) error {
	clients, errClients := loadTable(ctx, c, repository.TableClients, mapper.KindClient, mapper.DecodeClient)
	inventory, errInventory := loadTable(ctx, c, repository.TableInventory, mapper.KindInventoryItem, mapper.DecodeItem)
	bookings, errBookings := loadTable(ctx, c, repository.TableBookings, mapper.KindBooking, mapper.DecodeBooking)

	c.mu.Lock()
	c.clients = clients
	c.inventory = inventory
	c.bookings = bookings
	c.mu.Unlock()

	c.log.Info("workspace loaded",
		slog.Int("clients", len(clients)),
		slog.Int("inventory", len(inventory)),
		slog.Int("bookings", len(bookings)),
	)
	return errors.Join(errClients, errInventory, errBookings)
}

func loadTable[T any](
	ctx context.Context,
	c *Console,
	table string,
	kind mapper.Kind,
	decode func(mapper.Record) (T, error),
) ([]T, error) {
	out := []T{}

	recs, err := c.store.Select(ctx, table, nil)
	if err != nil {
		err = c.storeFailed("select", table, err)
		return out, err
	}

	for _, rec := range recs {
		app, err := mapper.ToApplicationShape(kind, rec)
		if err == nil {
			var v T
			if v, err = decode(app); err == nil {
				out = append(out, v)
				continue
			}
		}
		c.log.Warn("skipping malformed record",
			slog.String("table", table),
			slog.Any("id", rec["id"]),
			slog.Any("error", err),
		)
	}
	return out, nil
}

// saveOne проводит сущность через mapper и хранилище и возвращает то, что сохранилось.
func saveOne[T any](
	ctx context.Context,
	c *Console,
	table string,
	kind mapper.Kind,
	v T,
	decode func(mapper.Record) (T, error),
) (T, error) {
	var zero T

	app, err := mapper.Encode(v)
	if err != nil {
		return zero, domain.NewValidationError("", "record cannot be encoded", err)
	}
	rec, err := mapper.ToStoreShape(kind, app)
	if err != nil {
		return zero, err
	}

	saved, err := c.store.Upsert(ctx, table, []mapper.Record{rec})
	if err != nil {
		return zero, c.storeFailed("upsert", table, err)
	}
	if len(saved) != 1 {
		return zero, c.storeFailed("upsert", table, fmt.Errorf("store returned %d records, want 1", len(saved)))
	}

	back, err := mapper.ToApplicationShape(kind, saved[0])
	if err != nil {
		return zero, c.storeFailed("upsert", table, err)
	}
	out, err := decode(back)
	if err != nil {
		return zero, c.storeFailed("upsert", table, err)
	}
	return out, nil
}

func (c *Console) deleteOne(ctx context.Context, table, id string) error {
	if err := c.store.Delete(ctx, table, id); err != nil {
		return c.storeFailed("delete", table, err)
	}
	return nil
}

// storeFailed логирует сбой хранилища и приводит ошибку к одной из двух категорий:
// валидация или хранилище.
func (c *Console) storeFailed(op, table string, err error) error {
	if domain.IsValidation(err) {
		return err
	}
	metrics.IncStoreError(table, op)
	c.log.Error("store call failed",
		slog.String("op", op),
		slog.String("table", table),
		slog.Any("error", err),
	)
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return &domain.PersistenceError{Op: op, Table: table, Err: err}
}

// newID выдаёт id из миллисекунд текущего времени. Два вызова в одну миллисекунду
// получают разные значения.
func (c *Console) newID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}

// trail пишет событие аудита. Ошибка записи только логируется.
func (c *Console) trail(ctx context.Context, typ model.EventType, table, id, details string) {
	ev := &model.Event{EventType: typ, Table: table, RecordID: id, Details: details}
	if err := c.audit.Append(ctx, ev); err != nil {
		c.log.Warn("audit append failed",
			slog.String("event", string(typ)),
			slog.String("record_id", id),
			slog.Any("error", err),
		)
	}
}

// History возвращает последние события аудита по записи.
func (c *Console) History(ctx context.Context, table, id string, limit int) ([]model.Event, error) {
	if _, ok := repository.KindOf(table); !ok {
		return nil, domain.NewValidationError("table", fmt.Sprintf("unknown table %q", table), repository.ErrUnknownTable)
	}
	events, err := c.audit.ListByRecord(ctx, table, id, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "history", Table: "events", Err: err}
	}
	return events, nil
}

// Activity возвращает события аудита за период [from, to).
func (c *Console) Activity(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	if !to.After(from) {
		return nil, domain.NewValidationError("to", "end of range must be after start", nil)
	}
	events, err := c.audit.ListByRange(ctx, from, to)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "activity", Table: "events", Err: err}
	}
	return events, nil
}
