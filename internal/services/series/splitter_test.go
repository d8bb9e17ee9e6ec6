package series

import (
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func mkSeries(n int) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := range s {
		s[i] = models.Point{Date: start.AddDate(0, 0, i), Value: float64(i)}
	}
	return s
}

func TestSplitFloorsTrainSize(t *testing.T) {
	cases := []struct {
		n, wantTrain int
	}{
		{30, 24},
		{31, 24},
		{100, 80},
		{10, 8},
		{5, 4},
	}
	for _, tc := range cases {
		split, err := Split(mkSeries(tc.n), 0.8)
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", tc.n, err)
		}
		if len(split.Train) != tc.wantTrain {
			t.Fatalf("n=%d: expected %d train points, got %d", tc.n, tc.wantTrain, len(split.Train))
		}
		if len(split.Train)+len(split.Validation) != tc.n {
			t.Fatalf("n=%d: split lost points", tc.n)
		}
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	s := mkSeries(50)
	split, err := Split(s, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !split.Train[len(split.Train)-1].Date.Before(split.Validation[0].Date) {
		t.Fatalf("validation does not follow train")
	}
	if split.Validation[0].Value != float64(len(split.Train)) {
		t.Fatalf("validation starts at wrong point")
	}
}

func TestSplitInvalidFraction(t *testing.T) {
	for _, f := range []float64{0, 1, -0.2, 1.5} {
		_, err := Split(mkSeries(10), f)
		var fracErr *models.InvalidFractionError
		if !errors.As(err, &fracErr) {
			t.Fatalf("fraction %v: expected InvalidFractionError, got %v", f, err)
		}
	}
}
