// Package core holds the domain model shared by the ledger, budget and
// merchant components.
//
// This file contains money parsing and handling. Amounts are carried as
// integer cents everywhere; floats only appear at the JSON boundary.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in cents. Use cents for all arithmetic; the float
// form exists only for JSON and display.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// SubClamped returns m - other, clamped at zero. Budget spent totals
// never go negative, even when reversing more than was applied.
func (m Money) SubClamped(other Money) Money {
	c := m.Cents - other.Cents
	if c < 0 {
		c = 0
	}
	return Money{Cents: c}
}

// Float64 returns the decimal value for display and JSON.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// FromFloat converts a decimal amount to cents with half-up rounding.
func FromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// MarshalJSON renders the amount as a plain decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float64(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts either a decimal number or a decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 1 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return ErrInvalidAmount
		}
		cents, err := ParseDecimalToCents(str)
		if err != nil {
			return err
		}
		m.Cents = cents
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return ErrInvalidAmount
	}
	if v < 0 {
		return ErrInvalidAmount
	}
	*m = FromFloat(v)
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Returns an error for invalid
// formats, negative values, or zero amounts.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
