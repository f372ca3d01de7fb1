package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendlog/internal/core"
)

func TestLedgerReplacesRecordsWholesale(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	l := NewLedger(repo)

	if _, err := l.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	gen := l.Generation()

	if _, err := l.Create(ctx, 10, "Food", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Create(ctx, 20, "Books", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Generation() != gen+2 {
		t.Fatalf("generation = %d, want %d", l.Generation(), gen+2)
	}

	snap := l.Snapshot()
	if len(snap) != 2 || snap[0].Category != "Books" {
		t.Fatalf("snapshot = %+v", snap)
	}
	snap[0].Amount = 1000
	if l.Snapshot()[0].Amount != 20 {
		t.Fatal("snapshot must be a copy")
	}

	if !l.Contains(snap[1].ID) || l.Contains(999) {
		t.Fatal("Contains mismatch")
	}

	records, g := l.Current()
	if g != gen+2 || len(records) != 2 {
		t.Fatalf("Current() = %d records at generation %d", len(records), g)
	}
}

func TestLedgerKeepsStateOnValidationError(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	l := NewLedger(repo)
	l.Create(ctx, 10, "Food", "")
	gen := l.Generation()

	if _, err := l.Create(ctx, -1, "Food", ""); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := l.Create(ctx, 5, "", ""); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if l.Generation() != gen || len(l.Snapshot()) != 1 {
		t.Fatalf("state changed after rejected input")
	}
}

func TestLedgerSummary(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	l := NewLedger(repo)
	l.Create(ctx, 10, "Food", "")
	l.Create(ctx, 5, "Food", "")
	all, _ := l.Create(ctx, 20, "Books", "")
	l.Update(ctx, all[0].ID, 20, "Books", "", core.NewDate(2024, 1, 15))

	now := fixedNow
	week := l.Summary(core.FilterWeek, now)
	if week.Total != 15 || len(week.Expenses) != 2 {
		t.Fatalf("week summary = %+v", week)
	}
	all2 := l.Summary(core.FilterAll, now)
	if all2.Total != 35 {
		t.Fatalf("total = %v, want 35", all2.Total)
	}
	if v, _ := all2.ByCategory.Get("Food"); v != 15 {
		t.Fatalf("Food = %v, want 15", v)
	}
	month := l.Summary(core.FilterMonth, time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local))
	if month.Total != 20 {
		t.Fatalf("January total = %v, want 20", month.Total)
	}
}

func TestLedgerRemove(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	l := NewLedger(repo)
	all, _ := l.Create(ctx, 10, "Food", "")

	got, err := l.Remove(ctx, all[0].ID)
	if err != nil || len(got) != 0 || len(l.Snapshot()) != 0 {
		t.Fatalf("remove = %v, %v", got, err)
	}
}
