package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

func seedEvents(t *testing.T, base time.Time) []*domain.Event {
	t.Helper()
	return []*domain.Event{
		{CreatedAt: base, Direction: domain.DirectionMO, SubscriberHash: "a", Text: "q1"},
		{CreatedAt: base.Add(time.Second), Direction: domain.DirectionMT, SubscriberHash: "a", Text: "r1"},
		{CreatedAt: base.Add(2 * time.Second), Direction: domain.DirectionBLOCK, SubscriberHash: "b", Text: "x"},
	}
}

func TestAppendEvents_ListAndCount(t *testing.T) {
	db := newTestDB(t, &domain.Event{})
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := AppendEvents(ctx, db); err != nil {
		t.Fatalf("empty append should be a no-op, got %v", err)
	}
	if err := AppendEvents(ctx, db, seedEvents(t, base)...); err != nil {
		t.Fatalf("AppendEvents: %v", err)
	}

	total, err := CountEvents(ctx, db, "")
	if err != nil || total != 3 {
		t.Fatalf("CountEvents(all) = %d, %v", total, err)
	}
	mt, err := CountEvents(ctx, db, domain.DirectionMT)
	if err != nil || mt != 1 {
		t.Fatalf("CountEvents(MT) = %d, %v", mt, err)
	}

	page, err := ListEventsPage(ctx, db, "", 0, 2)
	if err != nil {
		t.Fatalf("ListEventsPage: %v", err)
	}
	if len(page) != 2 || page[0].Direction != domain.DirectionBLOCK || page[1].Direction != domain.DirectionMT {
		t.Fatalf("expected newest first, got %+v", page)
	}

	forA, err := ListSubscriberEvents(ctx, db, "a")
	if err != nil {
		t.Fatalf("ListSubscriberEvents: %v", err)
	}
	if len(forA) != 2 || forA[0].Direction != domain.DirectionMO || forA[1].Direction != domain.DirectionMT {
		t.Fatalf("expected MO then MT for a, got %+v", forA)
	}
}
