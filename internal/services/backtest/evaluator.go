package backtest

import (
	"fmt"
	"math"

	"StockCast/internal/domain/models"
	domsvc "StockCast/internal/domain/service"
)

// Evaluate runs a fitted model over the validation window and computes
// accuracy metrics against the known actuals. The forecast is produced
// over exactly the validation dates, so actuals and predictions align
// one-to-one by construction.
//
// Zero-valued actuals make MAPE undefined; they are excluded from the
// MAPE mean and counted in Metrics.ZeroActuals. Only when no nonzero
// actual remains does evaluation fail.
func Evaluate(fm domsvc.FittedModel, validation models.Series) (models.BacktestMetrics, error) {
	var m models.BacktestMetrics

	if len(validation) == 0 {
		return m, fmt.Errorf("validation window is empty")
	}

	fc, err := fm.Predict(validation.Dates())
	if err != nil {
		return m, fmt.Errorf("predict validation window: %w", err)
	}
	if len(fc) != len(validation) {
		return m, fmt.Errorf("forecast length %d does not match validation length %d", len(fc), len(validation))
	}

	var sse, apeSum float64
	nonzero := 0
	for i, actual := range validation {
		diff := actual.Value - fc[i].Value
		sse += diff * diff
		if actual.Value == 0 {
			m.ZeroActuals++
			continue
		}
		apeSum += math.Abs(diff / actual.Value)
		nonzero++
	}

	m.RMSE = math.Sqrt(sse / float64(len(validation)))
	if nonzero == 0 {
		return m, models.ErrZeroActuals
	}
	m.MAPE = 100 * apeSum / float64(nonzero)

	return m, nil
}
