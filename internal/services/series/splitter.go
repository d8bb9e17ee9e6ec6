package series

import (
	"math"

	"StockCast/internal/domain/models"
)

// DefaultTrainFraction is the observed train/validation ratio.
const DefaultTrainFraction = 0.8

// Split partitions a chronological series into a training prefix of
// floor(n*trainFraction) points and a validation suffix of the remainder.
// Order is preserved; no resampling or shuffling.
func Split(s models.Series, trainFraction float64) (models.Split, error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return models.Split{}, &models.InvalidFractionError{Fraction: trainFraction}
	}
	k := int(math.Floor(float64(len(s)) * trainFraction))
	return models.Split{Train: s[:k], Validation: s[k:]}, nil
}
