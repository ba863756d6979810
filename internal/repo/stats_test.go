package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

func TestEventsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, _, err := EventsStats(context.Background(), db, ""); err == nil {
		t.Fatalf("expected error due to missing events table")
	}
}

func TestEventsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Event{})
	count, latest, err := EventsStats(context.Background(), db, "")
	if err != nil {
		t.Fatalf("EventsStats error: %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, latest)
	}
}

func TestEventsStats_FilterAndLatest(t *testing.T) {
	db := newTestDB(t, &domain.Event{})
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := AppendEvents(ctx, db, seedEvents(t, base)...); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, latest, err := EventsStats(ctx, db, "")
	if err != nil {
		t.Fatalf("EventsStats error: %v", err)
	}
	if count != 3 || latest == nil || !latest.Equal(base.Add(2*time.Second)) {
		t.Fatalf("unexpected stats: count=%d latest=%v", count, latest)
	}

	count, latest, err = EventsStats(ctx, db, domain.DirectionMT)
	if err != nil {
		t.Fatalf("EventsStats(MT) error: %v", err)
	}
	if count != 1 || latest == nil || !latest.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected MT stats: count=%d latest=%v", count, latest)
	}
}
