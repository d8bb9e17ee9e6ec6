package chart

import (
	"reflect"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func testInputs(histN, fcN int) (models.Series, models.Forecast) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hist := make(models.Series, histN)
	for i := range hist {
		hist[i] = models.Point{Date: start.AddDate(0, 0, i), Value: 100 + float64(i)}
	}
	fc := make(models.Forecast, fcN)
	for i := range fc {
		v := 100 + float64(histN+i)
		fc[i] = models.ForecastPoint{
			Date:  start.AddDate(0, 0, histN+i),
			Value: v,
			Lower: v - 2,
			Upper: v + 2,
			Trend: v,
		}
	}
	return hist, fc
}

func TestAssembleKeepsHorizonTail(t *testing.T) {
	hist, fc := testInputs(40, 50)
	payload, err := Assemble(hist, fc, 7, "BNP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payload.Forecast.Dates) != 7 {
		t.Fatalf("expected 7 forecast dates, got %d", len(payload.Forecast.Dates))
	}
	if payload.Forecast.Dates[0] != fc[43].Date.Format("2006-01-02") {
		t.Fatalf("tail starts at wrong date: %s", payload.Forecast.Dates[0])
	}
	if payload.Symbol != "BNP" {
		t.Fatalf("symbol lost: %s", payload.Symbol)
	}
}

func TestAssembleParallelArrays(t *testing.T) {
	hist, fc := testInputs(30, 14)
	payload, err := Assemble(hist, fc, 14, "ACME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := len(payload.Forecast.Dates)
	if len(payload.Forecast.Forecast) != n ||
		len(payload.Forecast.LowerBound) != n ||
		len(payload.Forecast.UpperBound) != n {
		t.Fatalf("forecast arrays not parallel")
	}
	if len(payload.Historical.Dates) != len(hist) || len(payload.Historical.Actual) != len(hist) {
		t.Fatalf("historical arrays not parallel")
	}
	for i := range payload.Forecast.Forecast {
		if payload.Forecast.LowerBound[i] > payload.Forecast.Forecast[i] ||
			payload.Forecast.Forecast[i] > payload.Forecast.UpperBound[i] {
			t.Fatalf("bounds out of order at %d", i)
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	hist, fc := testInputs(40, 20)
	a, err := Assemble(hist, fc, 10, "BNP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Assemble(hist, fc, 10, "BNP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("payloads differ between identical calls")
	}
}

func TestAssembleHorizonOutOfRange(t *testing.T) {
	hist, fc := testInputs(40, 10)
	if _, err := Assemble(hist, fc, 11, "BNP"); err == nil {
		t.Fatalf("expected error for horizon beyond forecast")
	}
	if _, err := Assemble(hist, fc, 0, "BNP"); err == nil {
		t.Fatalf("expected error for zero horizon")
	}
}

func TestRowsCarryTrend(t *testing.T) {
	_, fc := testInputs(10, 12)
	rows := Rows(fc, 12)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Trend != fc[i].Trend {
			t.Fatalf("trend lost at row %d", i)
		}
		if r.Date == "" {
			t.Fatalf("empty date at row %d", i)
		}
	}
}
