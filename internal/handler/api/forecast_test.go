package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load dataset: %w", models.ErrNotFound), http.StatusNotFound},
		{"empty input", models.ErrEmptyInput, http.StatusBadRequest},
		{"schema", &models.SchemaError{Missing: []string{"Last"}}, http.StatusBadRequest},
		{"insufficient", &models.InsufficientDataError{Rows: 5, Min: 30}, http.StatusBadRequest},
		{"date parse", &models.DateParseError{Value: "x", Row: 3}, http.StatusBadRequest},
		{"value parse", &models.ValueParseError{Column: "Last", Value: "NaN", Row: 3}, http.StatusBadRequest},
		{"fraction", &models.InvalidFractionError{Fraction: 1.5}, http.StatusBadRequest},
		{"range", &models.RangeError{Days: 40, Min: 7, Max: 30}, http.StatusBadRequest},
		{"wrapped range", fmt.Errorf("split: %w", &models.RangeError{Days: 40, Min: 7, Max: 30}), http.StatusBadRequest},
		{"convergence", &models.ConvergenceError{Reason: "input series is constant"}, http.StatusUnprocessableEntity},
		{"zero actuals", models.ErrZeroActuals, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapDomainError(tc.err)
			var appErr *xhttp.AppError
			if !errors.As(mapped, &appErr) {
				t.Fatalf("mapped error is %T, want *AppError", mapped)
			}
			if appErr.Status != tc.want {
				t.Errorf("status = %d, want %d", appErr.Status, tc.want)
			}
			if !errors.Is(mapped, tc.err) && appErr.Err == nil {
				t.Error("original error not preserved")
			}
		})
	}
}

func TestMapDomainErrorHidesInternalDetail(t *testing.T) {
	mapped := mapDomainError(errors.New("clickhouse: connection refused"))
	var appErr *xhttp.AppError
	if !errors.As(mapped, &appErr) {
		t.Fatalf("mapped error is %T", mapped)
	}
	if appErr.Message != "prediction failed" {
		t.Errorf("message = %q, internal detail must not leak", appErr.Message)
	}
}
