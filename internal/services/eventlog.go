package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
	"github.com/tbourn/go-sms-backend/internal/repo"
)

// EventLog is the read side of the audit log used by operator endpoints.
// Writes only ever happen inside the Pipeline.
type EventLog struct {
	DB *gorm.DB
}

// ParseDirection maps a query value (case-insensitive) to a Direction. An
// empty value means "all directions" and yields "".
func ParseDirection(s string) (domain.Direction, error) {
	d := domain.Direction(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case "", domain.DirectionMO, domain.DirectionMT, domain.DirectionDUP, domain.DirectionBLOCK:
		return d, nil
	}
	return "", ErrInvalidDirection
}

// ListPage returns one page of events, newest first, plus the total number of
// events matching direction. page is 1-based.
func (l *EventLog) ListPage(ctx context.Context, direction domain.Direction, page, pageSize int) ([]domain.Event, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	total, err := repo.CountEvents(ctx, l.DB, direction)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListEventsPage(ctx, l.DB, direction, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats returns the event count and latest timestamp for direction.
func (l *EventLog) Stats(ctx context.Context, direction domain.Direction) (int64, *time.Time, error) {
	return repo.EventsStats(ctx, l.DB, direction)
}
