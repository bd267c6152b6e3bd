package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	recordsv1 "github.com/Leganyst/rental-console/internal/api/records/v1"
	"github.com/Leganyst/rental-console/internal/config"
	"github.com/Leganyst/rental-console/internal/db"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
)

// newRemoteStore поднимает RecordServer поверх sqlite и возвращает RemoteStore, подключённый к нему.
func newRemoteStore(t *testing.T) *repository.RemoteStore {
	t.Helper()

	gdb, err := db.NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	recordsv1.RegisterRecordServiceServer(srv, NewRecordServer(
		repository.NewGormStore(gdb),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return repository.NewRemoteStore(recordsv1.NewRecordServiceClient(conn))
}

func TestRemoteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newRemoteStore(t)

	saved, err := store.Upsert(ctx, repository.TableBookings, []mapper.Record{{
		"id":            "1",
		"client_id":     "c1",
		"event_name":    "Festa",
		"date":          "2024-06-01",
		"start_time":    "09:00",
		"end_time":      "12:00",
		"items":         map[string]any{"cadeira": 15},
		"price":         "300.5",
		"event_address": map[string]any{"street": "Rua B"},
	}})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "c1", saved[0]["client_id"])

	rows, err := store.Select(ctx, repository.TableBookings, map[string]any{"date": "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	app, err := mapper.ToApplicationShape(mapper.KindBooking, rows[0])
	require.NoError(t, err)
	b, err := mapper.DecodeBooking(app)
	require.NoError(t, err)
	assert.Equal(t, 15, b.Quantity("cadeira"))
	assert.True(t, decimal.RequireFromString("300.5").Equal(b.Price))
	assert.Equal(t, "Rua B", b.EventAddress.Street)

	require.NoError(t, store.Delete(ctx, repository.TableBookings, "1"))
	rows, err = store.Select(ctx, repository.TableBookings, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRemoteStore_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	store := newRemoteStore(t)

	_, err := store.Upsert(ctx, repository.TableBookings, []mapper.Record{{"id": "1", "event_name": "sem cliente"}})
	assert.True(t, domain.IsValidation(err), "got %v", err)

	_, err = store.Select(ctx, "suppliers", nil)
	assert.True(t, errors.Is(err, repository.ErrUnknownTable), "got %v", err)

	err = store.Delete(ctx, repository.TableClients, "")
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestConsole_OverRemoteStore(t *testing.T) {
	ctx := context.Background()
	console := NewConsole(newRemoteStore(t), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, console.Load(ctx))

	client := mustClient(t, console, "Maria")
	item := mustItem(t, console, "Cadeira", 20)

	_, err := console.SaveBooking(ctx, bookingInput(client.ID, "2024-06-01", "09:00", "12:00", map[string]int{item.ID: 15}), "")
	require.NoError(t, err)

	_, err = console.SaveBooking(ctx, bookingInput(client.ID, "2024-06-01", "11:00", "13:00", map[string]int{item.ID: 10}), "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	reloaded := NewConsole(console.store, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.Bookings(), 1)
	assert.Equal(t, 20, reloaded.TotalUnits())
}
