package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/storage"
)

const (
	selectAllExpenses = `SELECT id, amount, category, note, date FROM expenses ORDER BY id DESC`
	insertExpense     = `INSERT INTO expenses (amount, category, note, date) VALUES (?, ?, ?, ?)`
	updateExpense     = `UPDATE expenses SET amount = ?, category = ?, note = ?, date = ? WHERE id = ?`
	deleteExpense     = `DELETE FROM expenses WHERE id = ?`
)

// EventPublisher receives committed mutations. amqp.Client implements it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// ExpenseRepository validates input and issues CRUD statements against a
// storage.Gateway. Every mutation is followed by a full reload, and the
// reloaded set is what callers get back.
type ExpenseRepository struct {
	gateway storage.Gateway
	events  EventPublisher
	now     func() time.Time
	logger  *log.Logger
}

type Option func(*ExpenseRepository)

// WithClock overrides the source of the current instant used for new expenses.
func WithClock(now func() time.Time) Option {
	return func(r *ExpenseRepository) { r.now = now }
}

// WithEvents publishes an event after each committed mutation.
func WithEvents(p EventPublisher) Option {
	return func(r *ExpenseRepository) { r.events = p }
}

func WithLogger(l *log.Logger) Option {
	return func(r *ExpenseRepository) { r.logger = l.WithComponent(log.ComponentExpense) }
}

func NewExpenseRepository(gateway storage.Gateway, opts ...Option) *ExpenseRepository {
	r := &ExpenseRepository{
		gateway: gateway,
		now:     time.Now,
		logger:  log.Default(log.ComponentExpense),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize makes sure the expenses table exists.
func (r *ExpenseRepository) Initialize(ctx context.Context) error {
	if err := r.gateway.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("initialize expenses: %w", err)
	}
	return nil
}

// LoadAll returns every expense, most recently created first.
func (r *ExpenseRepository) LoadAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.gateway.QueryAll(ctx, selectAllExpenses)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := expenseFromRow(row)
		if err != nil {
			r.logger.WarnContext(ctx, "Stored expense has an unreadable date",
				log.FieldExpenseID, e.ID,
				log.FieldDate, row["date"],
				log.FieldError, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Create validates and inserts a new expense dated today, then reloads.
// Invalid input returns an error matching core.ErrValidation and never reaches storage.
func (r *ExpenseRepository) Create(ctx context.Context, amount float64, category, note string) ([]core.Expense, error) {
	e := core.Expense{
		Amount:   amount,
		Category: core.NormalizeCategory(category),
		Note:     note,
		Date:     core.DateOf(r.now()),
	}
	if err := e.Validate(); err != nil {
		r.logger.DebugContext(ctx, "Rejected new expense",
			log.FieldOperation, log.OpValidate,
			log.FieldError, err)
		return nil, err
	}

	if _, err := r.gateway.Execute(ctx, insertExpense, e.Amount, e.Category, e.Note, e.Date.String()); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	expenses, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	// Single writer: the newest row is the one just inserted.
	if len(expenses) > 0 {
		created := expenses[0]
		r.logger.InfoContext(ctx, "Expense created",
			log.NewFields().WithOperation(log.OpCreate).
				WithExpense(created.ID, created.Amount, created.Category, created.Date.String()).
				ToSlice()...)
		r.publish(ctx, amqp.EventCreated, created)
	}
	return expenses, nil
}

// Update replaces amount, category, note and date of the expense with id,
// applying the same rules as Create. A missing id changes nothing and is not
// an error; callers see it as an unchanged record set.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, amount float64, category, note string, date core.Date) ([]core.Expense, error) {
	e := core.Expense{
		ID:       id,
		Amount:   amount,
		Category: core.NormalizeCategory(category),
		Note:     note,
		Date:     date,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	n, err := r.gateway.Execute(ctx, updateExpense, e.Amount, e.Category, e.Note, e.Date.String(), id)
	if err != nil {
		return nil, fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		r.logger.WarnContext(ctx, "Update matched no expense",
			log.FieldExpenseID, id,
			log.FieldAffected, n)
	}

	expenses, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.logger.InfoContext(ctx, "Expense updated",
			log.NewFields().WithOperation(log.OpUpdate).
				WithExpense(id, e.Amount, e.Category, e.Date.String()).
				ToSlice()...)
		r.publish(ctx, amqp.EventUpdated, e)
	}
	return expenses, nil
}

// Remove permanently deletes the expense with id, if present, then reloads.
func (r *ExpenseRepository) Remove(ctx context.Context, id int64) ([]core.Expense, error) {
	n, err := r.gateway.Execute(ctx, deleteExpense, id)
	if err != nil {
		return nil, fmt.Errorf("delete expense %d: %w", id, err)
	}

	expenses, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Delete matched no expense", log.FieldExpenseID, id)
		return expenses, nil
	}

	r.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	r.publish(ctx, amqp.EventDeleted, core.Expense{ID: id})
	return expenses, nil
}

func (r *ExpenseRepository) publish(ctx context.Context, t amqp.EventType, e core.Expense) {
	if r.events == nil {
		return
	}
	if err := r.events.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, e)); err != nil {
		// The mutation is already committed; the event is best effort.
		r.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldOperation, log.OpPublish,
			log.FieldExpenseID, e.ID,
			log.FieldError, err)
	}
}

// expenseFromRow converts a gateway row. A bad date still yields the
// expense, with a zero Date, alongside the parse error.
func expenseFromRow(row storage.Row) (core.Expense, error) {
	e := core.Expense{
		ID:       asInt64(row["id"]),
		Amount:   asFloat64(row["amount"]),
		Category: asString(row["category"]),
		Note:     asString(row["note"]),
	}
	d, err := core.ParseDate(asString(row["date"]))
	if err != nil {
		return e, err
	}
	e.Date = d
	return e, nil
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	default:
		return 0
	}
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
