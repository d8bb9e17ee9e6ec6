package series

import (
	"sort"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

// RequiredColumns are the column names fixed by contract with the upload
// frontend. "Last" is the closing-price equivalent used for forecasting.
var RequiredColumns = []string{"Date", "Open", "Higher", "Lower", "Last", "Volume"}

// Table is a raw tabular dataset as parsed from an uploaded CSV file.
type Table struct {
	Columns []string
	Records [][]string
}

// Validator checks an uploaded table for required fields, minimum length
// and chronological integrity.
type Validator struct {
	minSamples int
}

func NewValidator(minSamples int) *Validator {
	if minSamples <= 0 {
		minSamples = 30
	}
	return &Validator{minSamples: minSamples}
}

// Validate parses and checks a raw table and returns its rows sorted
// ascending by date. The input table is not mutated.
func (v *Validator) Validate(t *Table) ([]models.StockRow, error) {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &models.SchemaError{Missing: missing}
	}

	if len(t.Records) == 0 {
		return nil, models.ErrEmptyInput
	}
	if len(t.Records) < v.minSamples {
		return nil, &models.InsufficientDataError{Rows: len(t.Records), Min: v.minSamples}
	}

	rows := make([]models.StockRow, 0, len(t.Records))
	for i, rec := range t.Records {
		var row models.StockRow

		raw := rec[idx["Date"]]
		d, ok := util.ParseDate(raw)
		if !ok {
			return nil, &models.DateParseError{Value: raw, Row: i + 1}
		}
		row.Date = d

		for _, f := range []struct {
			column string
			dst    *float64
		}{
			{"Open", &row.Open},
			{"Higher", &row.High},
			{"Lower", &row.Low},
			{"Last", &row.Last},
			{"Volume", &row.Volume},
		} {
			val, ok := util.ParseFinite(rec[idx[f.column]])
			if !ok {
				return nil, &models.ValueParseError{Column: f.column, Value: rec[idx[f.column]], Row: i + 1}
			}
			*f.dst = val
		}

		rows = append(rows, row)
	}

	// Downstream splitting and backtesting assume chronological order.
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Date.Before(rows[b].Date) })

	return rows, nil
}

// FromRows rebuilds the closing-price series from already parsed rows,
// re-applying the ordering and length invariants. Used when rows come back
// from the dataset store rather than a fresh upload.
func (v *Validator) FromRows(rows []models.StockRow) (models.Series, error) {
	if len(rows) == 0 {
		return nil, models.ErrEmptyInput
	}
	if len(rows) < v.minSamples {
		return nil, &models.InsufficientDataError{Rows: len(rows), Min: v.minSamples}
	}
	s := Closing(rows)
	sort.SliceStable(s, func(a, b int) bool { return s[a].Date.Before(s[b].Date) })
	return s, nil
}

// Closing selects the (date, Last) pairs from validated rows.
func Closing(rows []models.StockRow) models.Series {
	s := make(models.Series, len(rows))
	for i, r := range rows {
		s[i] = models.Point{Date: r.Date, Value: r.Last}
	}
	return s
}
