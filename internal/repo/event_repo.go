// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append-only audit event log.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

// AppendEvents inserts events in order. Events are never updated or deleted
// by this package.
func AppendEvents(ctx context.Context, db *gorm.DB, events ...*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx := db.WithContext(ctx)
	for _, ev := range events {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountEvents returns the number of events, optionally filtered by direction
// (empty string means all).
func CountEvents(ctx context.Context, db *gorm.DB, direction domain.Direction) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Event{})
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListEventsPage returns events newest first (CreatedAt DESC, ID DESC),
// optionally filtered by direction.
func ListEventsPage(ctx context.Context, db *gorm.DB, direction domain.Direction, offset, limit int) ([]domain.Event, error) {
	var out []domain.Event
	q := db.WithContext(ctx).Order("created_at DESC, id DESC")
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListSubscriberEvents returns every event for one subscriber in insertion order.
func ListSubscriberEvents(ctx context.Context, db *gorm.DB, hash string) ([]domain.Event, error) {
	var out []domain.Event
	err := db.WithContext(ctx).
		Where("subscriber_hash = ?", hash).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
