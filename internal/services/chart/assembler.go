package chart

import (
	"fmt"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

// Assemble packages the historical series and the future tail of a model
// forecast into the presentation payload. The forecast argument may
// include re-predictions over the historical range; only the final
// horizon entries — the genuinely future dates — are kept. Pure function:
// identical inputs yield identical output arrays.
func Assemble(historical models.Series, fc models.Forecast, horizon int, symbol string) (models.ChartData, error) {
	if horizon <= 0 || horizon > len(fc) {
		return models.ChartData{}, fmt.Errorf("horizon %d out of range for forecast of %d entries", horizon, len(fc))
	}

	future := fc[len(fc)-horizon:]

	payload := models.ChartData{
		Historical: models.HistoricalData{
			Dates:  make([]string, len(historical)),
			Actual: make([]float64, len(historical)),
		},
		Forecast: models.ForecastData{
			Dates:      make([]string, horizon),
			Forecast:   make([]float64, horizon),
			LowerBound: make([]float64, horizon),
			UpperBound: make([]float64, horizon),
		},
		Symbol: symbol,
	}

	for i, p := range historical {
		payload.Historical.Dates[i] = util.FormatDate(p.Date)
		payload.Historical.Actual[i] = p.Value
	}
	for i, p := range future {
		payload.Forecast.Dates[i] = util.FormatDate(p.Date)
		payload.Forecast.Forecast[i] = p.Value
		payload.Forecast.LowerBound[i] = p.Lower
		payload.Forecast.UpperBound[i] = p.Upper
	}

	return payload, nil
}

// Rows converts the future tail of a forecast into exportable rows with
// the model's native trend column.
func Rows(fc models.Forecast, horizon int) []models.ForecastRow {
	if horizon > len(fc) {
		horizon = len(fc)
	}
	future := fc[len(fc)-horizon:]
	rows := make([]models.ForecastRow, len(future))
	for i, p := range future {
		rows[i] = models.ForecastRow{
			Date:       util.FormatDate(p.Date),
			Forecast:   p.Value,
			LowerBound: p.Lower,
			UpperBound: p.Upper,
			Trend:      p.Trend,
		}
	}
	return rows
}
