package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/rental-console/internal/config"
	"github.com/Leganyst/rental-console/internal/db"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestGormStore_UpsertAndSelect(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))

	saved, err := store.Upsert(ctx, repository.TableInventory, []mapper.Record{
		{"id": "mesa-redonda", "name": "Mesa Redonda", "quantity": 10, "cost": "50", "rental_price": "12.5"},
		{"id": "cadeira", "name": "Cadeira", "quantity": 20, "cost": 15, "rental_price": 2},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved records, got %d", len(saved))
	}
	if saved[0]["id"] != "mesa-redonda" || saved[1]["id"] != "cadeira" {
		t.Fatalf("expected input order, got %v, %v", saved[0]["id"], saved[1]["id"])
	}
	if _, ok := saved[0]["created_at"]; !ok {
		t.Fatalf("expected created_at in saved record: %v", saved[0])
	}

	all, err := store.Select(ctx, repository.TableInventory, nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}

	item, err := mapper.DecodeItem(mustApp(t, mapper.KindInventoryItem, all[1]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.ID != "mesa-redonda" || item.Quantity != 10 || item.RentalPrice.String() != "12.5" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestGormStore_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))

	first, err := store.Upsert(ctx, repository.TableInventory, []mapper.Record{
		{"id": "mesa", "name": "Mesa", "quantity": 10, "cost": 1, "rental_price": 1},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	second, err := store.Upsert(ctx, repository.TableInventory, []mapper.Record{
		{"id": "mesa", "name": "Mesa", "quantity": 0, "cost": 1, "rental_price": 1},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := store.Select(ctx, repository.TableInventory, map[string]any{"id": "mesa"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if q, _ := rows[0]["quantity"].(float64); q != 0 {
		t.Fatalf("expected quantity 0, got %v", rows[0]["quantity"])
	}
	if first[0]["created_at"] != second[0]["created_at"] {
		t.Fatalf("created_at changed on update: %v -> %v", first[0]["created_at"], second[0]["created_at"])
	}
}

func TestGormStore_SelectWithFilters(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))

	_, err := store.Upsert(ctx, repository.TableBookings, []mapper.Record{
		{"id": "1", "client_id": "c1", "event_name": "A", "date": "2024-06-01", "start_time": "09:00", "end_time": "10:00", "items": map[string]any{"mesa": 2}},
		{"id": "2", "client_id": "c2", "event_name": "B", "date": "2024-06-01", "start_time": "11:00", "end_time": "12:00", "items": map[string]any{}},
		{"id": "3", "client_id": "c1", "event_name": "C", "date": "2024-06-02", "start_time": "09:00", "end_time": "10:00", "items": map[string]any{}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := store.Select(ctx, repository.TableBookings, map[string]any{"client_id": "c1", "date": "2024-06-01"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "1" {
		t.Fatalf("expected booking 1, got %v", rows)
	}

	items, ok := rows[0]["items"].(map[string]any)
	if !ok || items["mesa"] != float64(2) {
		t.Fatalf("unexpected items: %#v", rows[0]["items"])
	}
}

func TestGormStore_BookingWithoutClientRejected(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))

	_, err := store.Upsert(ctx, repository.TableBookings, []mapper.Record{
		{"id": "1", "event_name": "sem cliente"},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, mapper.ErrMissingClientReference) {
		t.Fatalf("expected ErrMissingClientReference, got %v", err)
	}

	rows, err := store.Select(ctx, repository.TableBookings, nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected nothing written, got %d rows", len(rows))
	}
}

func TestGormStore_MissingIDRejected(t *testing.T) {
	store := repository.NewGormStore(newTestDB(t))

	_, err := store.Upsert(context.Background(), repository.TableClients, []mapper.Record{{"name": "Maria"}})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGormStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))

	if _, err := store.Upsert(ctx, repository.TableClients, []mapper.Record{{"id": "1", "name": "Maria"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Delete(ctx, repository.TableClients, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, repository.TableClients, "1"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}

	rows, err := store.Select(ctx, repository.TableClients, nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
}

func TestGormStore_UnknownTable(t *testing.T) {
	store := repository.NewGormStore(newTestDB(t))

	_, err := store.Select(context.Background(), "suppliers", nil)
	if !errors.Is(err, repository.ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}

func TestGormStore_PersistenceError(t *testing.T) {
	gdb := newTestDB(t)
	store := repository.NewGormStore(gdb)

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	sqlDB.Close()

	_, err = store.Select(context.Background(), repository.TableClients, nil)
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if pErr.Op != "select" || pErr.Table != repository.TableClients {
		t.Fatalf("unexpected error fields: %+v", pErr)
	}
}

func TestGormAuditLog(t *testing.T) {
	ctx := context.Background()
	audit := repository.NewGormAuditLog(newTestDB(t))

	for _, typ := range []model.EventType{model.EventTypeBookingCreated, model.EventTypeBookingUpdated} {
		ev := &model.Event{EventType: typ, Table: repository.TableBookings, RecordID: "42"}
		if err := audit.Append(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
		if ev.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Fatalf("expected generated id")
		}
	}

	events, err := audit.ListByRecord(ctx, repository.TableBookings, "42", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	now := time.Now().UTC()
	inRange, err := audit.ListByRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(inRange) != 2 {
		t.Fatalf("expected 2 events in range, got %d", len(inRange))
	}
}

func mustApp(t *testing.T, kind mapper.Kind, rec mapper.Record) mapper.Record {
	t.Helper()
	app, err := mapper.ToApplicationShape(kind, rec)
	if err != nil {
		t.Fatalf("to application shape: %v", err)
	}
	return app
}
