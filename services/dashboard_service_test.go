package services

import (
	"context"
	"testing"
	"time"

	"agenda-backend/models"

	"github.com/patrickmn/go-cache"
)

func TestDashboardSummary(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db, "Ana", "12345678901", 0)
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2024-12-30", Time: "09:00", Realized: true, Paid: true, Value: floatPtr(500)})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-02", Time: "09:00", Realized: true, Paid: true, Value: floatPtr(100)})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-03", Time: "09:00", Realized: true, Value: floatPtr(80)})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-10", Time: "09:00", Value: floatPtr(80)})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-16", Time: "09:00"})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-20", Time: "09:00"})

	svc := NewDashboardService(db, nil)
	svc.now = fixedClock("2025-01-15")

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := DashboardSummary{Realized: 2, Received: 100, Receivable: 80, Upcoming: 2, NotRealized: 1}
	if *summary != want {
		t.Fatalf("expected %+v, got %+v", want, *summary)
	}
}

func TestDashboardSummaryCache(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db, "Ana", "12345678901", 0)
	svc := NewDashboardService(db, cache.New(time.Minute, time.Minute))
	svc.now = fixedClock("2025-01-15")
	ctx := context.Background()

	if _, err := svc.Summary(ctx); err != nil {
		t.Fatalf("summary: %v", err)
	}
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-20", Time: "09:00"})

	cached, _ := svc.Summary(ctx)
	if cached.Upcoming != 0 {
		t.Fatalf("expected the cached summary, got %+v", cached)
	}

	svc.Invalidate()
	fresh, _ := svc.Summary(ctx)
	if fresh.Upcoming != 1 {
		t.Fatalf("expected a fresh summary after invalidation, got %+v", fresh)
	}
}

func TestDashboardAgenda(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db, "Ana", "12345678901", 0)
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-16", Time: "10:00"})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-16", Time: "08:00"})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-17", Time: "09:00", Realized: true})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-20", Time: "09:00"})
	seedSession(t, db, models.Session{ClientID: client.ID, Date: "2025-01-30", Time: "09:00"})

	svc := NewDashboardService(db, nil)
	svc.now = fixedClock("2025-01-15")
	ctx := context.Background()

	upcoming, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 3 {
		t.Fatalf("expected 3 upcoming sessions, got %d", len(upcoming))
	}
	if upcoming[0].Time != "08:00" || upcoming[0].Date != "16/01/2025" || upcoming[0].Client != "Ana" {
		t.Fatalf("unexpected first item %+v", upcoming[0])
	}

	next, err := svc.NextDay(ctx)
	if err != nil || len(next) != 2 {
		t.Fatalf("expected 2 sessions on Thursday, got %d, %v", len(next), err)
	}

	// On a Friday the next business day is Monday.
	svc.now = fixedClock("2025-01-17")
	next, err = svc.NextDay(ctx)
	if err != nil || len(next) != 1 || next[0].Date != "20/01/2025" {
		t.Fatalf("expected Monday's session, got %+v, %v", next, err)
	}
}
