package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/rental-console/internal/model"
)

type AuditLog interface {
	// Записать событие.
	Append(ctx context.Context, ev *model.Event) error
	// Последние события по записи, новые первыми.
	ListByRecord(ctx context.Context, table, recordID string, limit int) ([]model.Event, error)
	// События за период [from, to).
	ListByRange(ctx context.Context, from, to time.Time) ([]model.Event, error)
}

type GormAuditLog struct {
	db *gorm.DB
}

func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

func (r *GormAuditLog) Append(ctx context.Context, ev *model.Event) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *GormAuditLog) ListByRecord(ctx context.Context, table, recordID string, limit int) ([]model.Event, error) {
	var events []model.Event
	q := r.db.WithContext(ctx).
		Where("record_table = ? AND record_id = ?", table, recordID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormAuditLog) ListByRange(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// NopAuditLog ничего не пишет. Используется, когда консоль работает через удалённое хранилище.
type NopAuditLog struct{}

func (NopAuditLog) Append(context.Context, *model.Event) error { return nil }

func (NopAuditLog) ListByRecord(context.Context, string, string, int) ([]model.Event, error) {
	return nil, nil
}

func (NopAuditLog) ListByRange(context.Context, time.Time, time.Time) ([]model.Event, error) {
	return nil, nil
}
