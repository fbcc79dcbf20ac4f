package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

func testRecord(scope models.Scope, target string, total int64, fetchedAt time.Time) *models.SnapshotRecord {
	start, _ := models.ParseDate("2024-03-01")
	end, _ := models.ParseDate("2024-03-08")
	return &models.SnapshotRecord{
		Scope:        scope,
		Target:       target,
		PeriodDays:   7,
		TotalTokens:  total,
		InputTokens:  total / 2,
		OutputTokens: total / 4,
		TotalCost:    1.25,
		RunCount:     3,
		StartDate:    start,
		EndDate:      end,
		DailyPoints:  7,
		FetchedAt:    fetchedAt,
	}
}

func TestInsertSnapshot(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	fetched := time.Date(2024, 3, 8, 12, 30, 0, 0, time.UTC)
	rec := testRecord(models.ScopeProject, "bot_model", 1500, fetched)
	rec.CycleBased = true

	if err := db.InsertSnapshot(ctx, rec); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}
	if rec.ID == 0 {
		t.Error("InsertSnapshot() should set ID")
	}

	got, err := db.RecentSnapshots(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSnapshots() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(RecentSnapshots()) = %d, want 1", len(got))
	}

	r := got[0]
	if r.Scope != models.ScopeProject || r.Target != "bot_model" {
		t.Errorf("scope/target = %s/%s, want project/bot_model", r.Scope, r.Target)
	}
	if r.TotalTokens != 1500 || r.InputTokens != 750 || r.OutputTokens != 375 {
		t.Errorf("tokens = %d/%d/%d", r.TotalTokens, r.InputTokens, r.OutputTokens)
	}
	if r.TotalCost != 1.25 || r.RunCount != 3 || r.DailyPoints != 7 {
		t.Errorf("cost/runs/points = %v/%d/%d", r.TotalCost, r.RunCount, r.DailyPoints)
	}
	if r.StartDate.String() != "2024-03-01" || r.EndDate.String() != "2024-03-08" {
		t.Errorf("dates = %s..%s", r.StartDate, r.EndDate)
	}
	if !r.CycleBased {
		t.Error("CycleBased = false, want true")
	}
	if !r.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", r.FetchedAt, fetched)
	}
}

func TestInsertSnapshot_DefaultsFetchedAt(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	rec := testRecord(models.ScopeClient, "client1", 10, time.Time{})
	rec.StartDate = models.Date{}
	rec.EndDate = models.Date{}

	if err := db.InsertSnapshot(context.Background(), rec); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}

	got, err := db.RecentSnapshots(context.Background(), 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("RecentSnapshots() = %v, %v", got, err)
	}
	if time.Since(got[0].FetchedAt) > time.Minute {
		t.Errorf("FetchedAt = %v, want about now", got[0].FetchedAt)
	}
	if !got[0].StartDate.IsZero() {
		t.Errorf("StartDate = %v, want zero", got[0].StartDate)
	}
}

func TestRecentSnapshots_Order(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := testRecord(models.ScopeProject, "p", int64(i), base.Add(time.Duration(i)*time.Hour))
		if err := db.InsertSnapshot(ctx, rec); err != nil {
			t.Fatalf("InsertSnapshot() failed: %v", err)
		}
	}

	got, err := db.RecentSnapshots(ctx, 3)
	if err != nil {
		t.Fatalf("RecentSnapshots() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []int64{4, 3, 2} {
		if got[i].TotalTokens != want {
			t.Errorf("got[%d].TotalTokens = %d, want %d", i, got[i].TotalTokens, want)
		}
	}
}

func TestSnapshotsFor(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	records := []*models.SnapshotRecord{
		testRecord(models.ScopeProject, "a", 1, now),
		testRecord(models.ScopeProject, "b", 2, now),
		testRecord(models.ScopeClient, "a", 3, now),
	}
	for _, rec := range records {
		if err := db.InsertSnapshot(ctx, rec); err != nil {
			t.Fatalf("InsertSnapshot() failed: %v", err)
		}
	}

	tests := []struct {
		scope  models.Scope
		target string
		want   int64
	}{
		{models.ScopeProject, "a", 1},
		{models.ScopeProject, "b", 2},
		{models.ScopeClient, "a", 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope)+"/"+tt.target, func(t *testing.T) {
			got, err := db.SnapshotsFor(ctx, tt.scope, tt.target, 10)
			if err != nil {
				t.Fatalf("SnapshotsFor() failed: %v", err)
			}
			if len(got) != 1 || got[0].TotalTokens != tt.want {
				t.Errorf("SnapshotsFor() = %+v, want one record with %d tokens", got, tt.want)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	for _, age := range []time.Duration{0, 2 * time.Hour, 48 * time.Hour, 30 * 24 * time.Hour} {
		if err := db.InsertSnapshot(ctx, testRecord(models.ScopeProject, "p", 1, now.Add(-age))); err != nil {
			t.Fatalf("InsertSnapshot() failed: %v", err)
		}
	}

	removed, err := db.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}

	count, err := db.CountSnapshots(ctx)
	if err != nil {
		t.Fatalf("CountSnapshots() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountSnapshots() = %d, want 2", count)
	}

	removed, err = db.Prune(ctx, 0)
	if err != nil || removed != 0 {
		t.Errorf("Prune(0) = %d, %v; want 0, nil", removed, err)
	}
}
