// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for conditional responses (ETag generation) on the event log listing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

// EventsStats returns aggregate metadata for the event log: the number of
// rows (optionally restricted to one direction) and the greatest CreatedAt.
// When there are no rows, the returned count is 0 and latest is nil.
//
// Return values:
//   - count:  total events matching direction
//   - latest: pointer to the greatest CreatedAt, or nil if no rows
//   - err:    database error, if any
func EventsStats(ctx context.Context, db *gorm.DB, direction domain.Direction) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Event{})
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	// Session makes q safe to reuse for the second query.
	q = q.Session(&gorm.Session{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
