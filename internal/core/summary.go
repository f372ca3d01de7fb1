package core

import (
	"slices"
	"strings"
	"time"
)

// FilterMode selects which expenses take part in aggregation.
type FilterMode string

const (
	FilterAll   FilterMode = "all"
	FilterWeek  FilterMode = "week"
	FilterMonth FilterMode = "month"
)

// OtherCategory labels expenses whose category is empty.
const OtherCategory = "Other"

type (
	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// CategoryTotals is ordered by first occurrence in the aggregated set.
	CategoryTotals []CategoryAmount

	// ChartSeries holds parallel label/value lists ready for a chart.
	ChartSeries struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}

	// Summary is every derived view of a record set for one filter mode.
	Summary struct {
		Mode       FilterMode     `json:"filter"`
		Expenses   []Expense      `json:"expenses"`
		Total      float64        `json:"total"`
		ByCategory CategoryTotals `json:"by_category"`
		Chart      ChartSeries    `json:"chart"`
	}
)

// ParseFilterMode maps user input to a mode. Unknown input means FilterAll.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterWeek:
		return FilterWeek
	case FilterMonth:
		return FilterMonth
	default:
		return FilterAll
	}
}

// Filter returns the records of the given mode's window relative to now.
// The input slice is never modified; the result is always a fresh slice.
func Filter(records []Expense, mode FilterMode, now time.Time) []Expense {
	var keep func(Expense) bool
	switch mode {
	case FilterWeek:
		keep = func(e Expense) bool { return IsSameWeek(e.Date, now) }
	case FilterMonth:
		keep = func(e Expense) bool { return IsSameMonth(e.Date, now) }
	default:
		return slices.Clone(records)
	}

	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of records. An empty set totals 0.
func Total(records []Expense) float64 {
	var sum float64
	for _, e := range records {
		sum += e.Amount
	}
	return sum
}

// CategoryLabel is the name an expense is aggregated under.
func CategoryLabel(category string) string {
	if strings.TrimSpace(category) == "" {
		return OtherCategory
	}
	return category
}

// TotalsByCategory sums amounts per category, case-sensitively, in order of
// first occurrence. Categories without records are absent.
func TotalsByCategory(records []Expense) CategoryTotals {
	index := make(map[string]int)
	var out CategoryTotals
	for _, e := range records {
		name := CategoryLabel(e.Category)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryAmount{Name: name})
		}
		out[i].Amount += e.Amount
	}
	return out
}

// Get returns the total for name and whether it is present.
func (c CategoryTotals) Get(name string) (float64, bool) {
	for _, ca := range c {
		if ca.Name == name {
			return ca.Amount, true
		}
	}
	return 0, false
}

// Map returns the totals as a plain map (order is lost).
func (c CategoryTotals) Map() map[string]float64 {
	m := make(map[string]float64, len(c))
	for _, ca := range c {
		m[ca.Name] = ca.Amount
	}
	return m
}

// Sum adds up every category total.
func (c CategoryTotals) Sum() float64 {
	var sum float64
	for _, ca := range c {
		sum += ca.Amount
	}
	return sum
}

// ChartSeriesOf lays out the per-category totals as two equal-length lists.
func ChartSeriesOf(records []Expense) ChartSeries {
	totals := TotalsByCategory(records)
	s := ChartSeries{
		Labels: make([]string, len(totals)),
		Values: make([]float64, len(totals)),
	}
	for i, ca := range totals {
		s.Labels[i] = ca.Name
		s.Values[i] = ca.Amount
	}
	return s
}

// Summarize filters records by mode and computes every aggregate over the result.
func Summarize(records []Expense, mode FilterMode, now time.Time) Summary {
	mode = ParseFilterMode(string(mode))
	filtered := Filter(records, mode, now)
	return Summary{
		Mode:       mode,
		Expenses:   filtered,
		Total:      Total(filtered),
		ByCategory: TotalsByCategory(filtered),
		Chart:      ChartSeriesOf(filtered),
	}
}
