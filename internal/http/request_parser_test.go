package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spendlog/internal/core"
)

func newBodyRequest(contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestParseExpenseInput(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        expenseInput
		wantErr     error
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"amount": 12.5, "category": "Food", "note": "lunch\u0007"}`,
			want:        expenseInput{Amount: 12.5, Category: "Food", Note: "lunch"},
		},
		{
			name: "json sniffed without content type",
			body: `{"amount": "4,20", "category": "Bar"}`,
			want: expenseInput{Amount: 4.2, Category: "Bar"},
		},
		{
			name:        "form with date",
			contentType: "application/x-www-form-urlencoded",
			body:        "amount=7&category=Books&date=2024-06-03",
			want:        expenseInput{Amount: 7, Category: "Books", Date: core.NewDate(2024, 6, 3), HasDate: true},
		},
		{
			name:        "bad amount",
			contentType: "application/json",
			body:        `{"amount": "ten", "category": "Food"}`,
			wantErr:     core.ErrInvalidAmount,
		},
		{
			name:        "bad date",
			contentType: "application/json",
			body:        `{"amount": 1, "category": "Food", "date": "03/06/2024"}`,
			wantErr:     core.ErrInvalidDate,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"amount":`,
			wantErr:     errMalformedBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExpenseInput(newBodyRequest(tt.contentType, tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount != tt.want.Amount || got.Category != tt.want.Category || got.Note != tt.want.Note ||
				got.HasDate != tt.want.HasDate || !got.Date.Equal(tt.want.Date) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseExpenseInputBodyTooLarge(t *testing.T) {
	body := `{"amount": 1, "category": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	if _, err := parseExpenseInput(newBodyRequest("application/json", body)); !errors.Is(err, errMalformedBody) {
		t.Fatalf("error = %v, want errMalformedBody", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodDelete, "/api/expenses/"+tt.raw, nil)
		req.SetPathValue("id", tt.raw)
		got, err := parseID(req)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.raw, got, err)
		}
		if err != nil && !errors.Is(err, errInvalidID) {
			t.Errorf("parseID(%q) error should wrap errInvalidID", tt.raw)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}
