package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conditions that carry no extra data.
var (
	// ErrEmptyInput reports an uploaded table with zero data rows.
	ErrEmptyInput = errors.New("dataset has no rows")

	// ErrNotFound reports an unknown dataset or prediction id.
	ErrNotFound = errors.New("not found")

	// ErrZeroActuals reports that every validation actual was zero, so
	// MAPE is undefined.
	ErrZeroActuals = errors.New("all validation actuals are zero, MAPE undefined")
)

// SchemaError reports required columns missing from an uploaded table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// InsufficientDataError reports a table with too few rows for a
// meaningful train/validation split.
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d data points for meaningful predictions, got %d", e.Min, e.Rows)
}

// DateParseError reports a date field that does not parse as a calendar date.
type DateParseError struct {
	Value string
	Row   int
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q as a calendar date", e.Row, e.Value)
}

// ValueParseError reports a numeric field that does not parse to a finite number.
type ValueParseError struct {
	Column string
	Value  string
	Row    int
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("row %d: column %s value %q is not a finite number", e.Row, e.Column, e.Value)
}

// InvalidFractionError reports a train fraction outside (0, 1).
type InvalidFractionError struct {
	Fraction float64
}

func (e *InvalidFractionError) Error() string {
	return fmt.Sprintf("train fraction must be in (0, 1), got %v", e.Fraction)
}

// RangeError reports a forecast horizon outside the allowed range.
type RangeError struct {
	Days int
	Min  int
	Max  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("forecast_days must be between %d and %d, got %d", e.Min, e.Max, e.Days)
}

// ConvergenceError reports that model fitting could not produce stable
// parameters.
type ConvergenceError struct {
	Reason string
	Err    error
}

func (e *ConvergenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model failed to converge: %s: %v", e.Reason, e.Err)
	}
	return "model failed to converge: " + e.Reason
}

func (e *ConvergenceError) Unwrap() error { return e.Err }
