// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON or form-encoded; both end up as the same expenseInput.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spendlog/internal/core"
)

// maxBodyBytes bounds request bodies; an expense is a handful of fields.
const maxBodyBytes = 64 << 10

var (
	errMalformedBody = errors.New("malformed request body")
	errInvalidID     = errors.New("invalid expense id")
)

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("%w: body exceeds %d bytes", errMalformedBody, maxBodyBytes)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSONContent() || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", errMalformedBody, p.err)
	}
	return p.err
}

// Has reports whether key was supplied at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		return p.formData.Has(key)
	}
	return false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSONContent reports whether the Content-Type announces JSON.
func (p *RequestBodyParser) IsJSONContent() bool {
	return strings.HasPrefix(strings.ToLower(p.contentType), "application/json")
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// expenseInput is the validated shape of a create or update body.
type expenseInput struct {
	Amount   float64
	Category string
	Note     string
	Date     core.Date
	HasDate  bool
}

// parseExpenseInput reads amount, category, note and an optional date.
// Amount and date problems are reported as core validation errors; the
// repository applies the remaining rules.
func parseExpenseInput(r *http.Request) (expenseInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return expenseInput{}, err
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return expenseInput{}, err
	}

	in := expenseInput{
		Amount:   amount,
		Category: p.Get("category"),
		Note:     p.Get("note"),
	}
	if p.Has("date") {
		d, err := core.ParseDate(p.Get("date"))
		if err != nil {
			return expenseInput{}, err
		}
		in.Date, in.HasDate = d, true
	}
	return in, nil
}

// parseID extracts the {id} path value as a positive integer.
func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", errInvalidID, raw)
	}
	return id, nil
}
