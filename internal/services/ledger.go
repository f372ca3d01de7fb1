package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"spendlog/internal/core"
)

// ExpenseStore is the repository contract the Ledger drives.
type ExpenseStore interface {
	LoadAll(ctx context.Context) ([]core.Expense, error)
	Create(ctx context.Context, amount float64, category, note string) ([]core.Expense, error)
	Update(ctx context.Context, id int64, amount float64, category, note string, date core.Date) ([]core.Expense, error)
	Remove(ctx context.Context, id int64) ([]core.Expense, error)
}

// Ledger owns the in-memory record set shown to users. The set is only ever
// replaced wholesale by what the store returns, and operations run one at a
// time.
type Ledger struct {
	mu         sync.Mutex
	store      ExpenseStore
	records    []core.Expense
	generation uint64
}

func NewLedger(store ExpenseStore) *Ledger {
	return &Ledger{store: store}
}

// Refresh reloads the record set from the store.
func (l *Ledger) Refresh(ctx context.Context) ([]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return l.replace(records), nil
}

func (l *Ledger) Create(ctx context.Context, amount float64, category, note string) ([]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.Create(ctx, amount, category, note)
	if err != nil {
		return nil, err
	}
	return l.replace(records), nil
}

func (l *Ledger) Update(ctx context.Context, id int64, amount float64, category, note string, date core.Date) ([]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.Update(ctx, id, amount, category, note, date)
	if err != nil {
		return nil, err
	}
	return l.replace(records), nil
}

func (l *Ledger) Remove(ctx context.Context, id int64) ([]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.replace(records), nil
}

// Snapshot returns a copy of the current record set.
func (l *Ledger) Snapshot() []core.Expense {
	records, _ := l.Current()
	return records
}

// Current returns a copy of the record set together with the generation it
// belongs to, read under one lock.
func (l *Ledger) Current() ([]core.Expense, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records), l.generation
}

// Generation increases every time the record set is replaced.
func (l *Ledger) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Summary derives the filtered view and totals from the current set.
func (l *Ledger) Summary(mode core.FilterMode, now time.Time) core.Summary {
	return core.Summarize(l.Snapshot(), mode, now)
}

// Contains reports whether id is in the current set.
func (l *Ledger) Contains(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.ContainsFunc(l.records, func(e core.Expense) bool { return e.ID == id })
}

func (l *Ledger) replace(records []core.Expense) []core.Expense {
	l.records = records
	l.generation++
	return slices.Clone(records)
}
