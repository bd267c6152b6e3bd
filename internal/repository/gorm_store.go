package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/model"
)

// Реализация на GORM. Каждая таблица обслуживается своей строкой из internal/model.
type GormStore struct {
	db     *gorm.DB
	tables map[string]table
}

type table struct {
	selectFn func(ctx context.Context, db *gorm.DB, filters map[string]any) ([]mapper.Record, error)
	upsertFn func(ctx context.Context, db *gorm.DB, recs []mapper.Record) ([]mapper.Record, error)
	deleteFn func(ctx context.Context, db *gorm.DB, id string) error
}

func tableOf[T any]() table {
	return table{
		selectFn: selectRows[T],
		upsertFn: upsertRows[T],
		deleteFn: deleteRow[T],
	}
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
		tables: map[string]table{
			TableClients:   tableOf[model.Client](),
			TableInventory: tableOf[model.InventoryItem](),
			TableBookings:  tableOf[model.Booking](),
		},
	}
}

func (s *GormStore) lookup(name string) (table, error) {
	t, ok := s.tables[name]
	if !ok {
		return table{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

func (s *GormStore) Select(ctx context.Context, name string, filters map[string]any) ([]mapper.Record, error) {
	t, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	recs, err := t.selectFn(ctx, s.db, filters)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "select", Table: name, Err: err}
	}
	return recs, nil
}

func (s *GormStore) Upsert(ctx context.Context, name string, recs []mapper.Record) ([]mapper.Record, error) {
	t, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []mapper.Record{}, nil
	}
	if err := checkRecords(name, recs); err != nil {
		return nil, err
	}
	saved, err := t.upsertFn(ctx, s.db, recs)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "upsert", Table: name, Err: err}
	}
	return saved, nil
}

func (s *GormStore) Delete(ctx context.Context, name, id string) error {
	t, err := s.lookup(name)
	if err != nil {
		return err
	}
	if id == "" {
		return domain.NewValidationError("id", "id is required", nil)
	}
	if err := t.deleteFn(ctx, s.db, id); err != nil {
		return &domain.PersistenceError{Op: "delete", Table: name, Err: err}
	}
	return nil
}

// checkRecords: у каждой записи должен быть id, у брони ещё и client_id.
func checkRecords(name string, recs []mapper.Record) error {
	for i, rec := range recs {
		if id, _ := rec["id"].(string); id == "" {
			return domain.NewValidationError("id", fmt.Sprintf("record %d has no id", i), nil)
		}
		if name != TableBookings {
			continue
		}
		if ref, _ := rec["client_id"].(string); ref == "" {
			return domain.NewValidationError("client_id", fmt.Sprintf("record %d has no client reference", i), mapper.ErrMissingClientReference)
		}
	}
	return nil
}

func selectRows[T any](ctx context.Context, db *gorm.DB, filters map[string]any) ([]mapper.Record, error) {
	var rows []T

	q := db.WithContext(ctx).Model(new(T))
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return encodeRows(rows)
}

func upsertRows[T any](ctx context.Context, db *gorm.DB, recs []mapper.Record) ([]mapper.Record, error) {
	rows := make([]T, 0, len(recs))
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		var row T
		if err := mapper.Decode(rec, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
		ids = append(ids, rec["id"].(string))
	}

	var saved []T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
			return err
		}
		// перечитываем, чтобы вернуть то, что реально лежит в таблице (created_at не обновляется)
		return tx.Where("id IN ?", ids).Find(&saved).Error
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encodeRows(saved)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]mapper.Record, len(encoded))
	for _, rec := range encoded {
		id, _ := rec["id"].(string)
		byID[id] = rec
	}
	out := make([]mapper.Record, 0, len(ids))
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("record %s missing after upsert", id)
		}
		out = append(out, rec)
	}
	return out, nil
}

func deleteRow[T any](ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}

func encodeRows[T any](rows []T) ([]mapper.Record, error) {
	out := make([]mapper.Record, 0, len(rows))
	for i := range rows {
		rec, err := mapper.Encode(rows[i])
		if err != nil {
			return nil, errors.Join(fmt.Errorf("encode row %d", i), err)
		}
		out = append(out, rec)
	}
	return out, nil
}
