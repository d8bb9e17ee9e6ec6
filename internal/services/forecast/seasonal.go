package forecast

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"StockCast/internal/domain/models"
	domsvc "StockCast/internal/domain/service"
	"StockCast/pkg/util"
)

const (
	weekPeriod = 7.0
	yearPeriod = 365.25
)

// Options controls the additive trend-plus-seasonality model.
type Options struct {
	// Changepoints is the number of trend slope hinges placed uniformly
	// over the first 80% of the training range.
	Changepoints int
	// WeeklyOrder and YearlyOrder are the Fourier orders of the seasonal
	// components. A component is enabled only when the training span is
	// long enough to identify it (two periods).
	WeeklyOrder int
	YearlyOrder int
	// Ridge is the L2 penalty applied to all coefficients except the
	// intercept, keeping the solve stable on short series.
	Ridge float64
	// IntervalWidth is the multiplier on the residual standard deviation
	// used for the uncertainty bounds.
	IntervalWidth float64
}

func DefaultOptions() Options {
	return Options{
		Changepoints:  10,
		WeeklyOrder:   3,
		YearlyOrder:   6,
		Ridge:         0.05,
		IntervalWidth: 1.96,
	}
}

// Seasonal is an additive seasonal-trend forecaster: piecewise-linear
// trend with changepoints plus weekly and yearly Fourier seasonality,
// fitted by ridge-regularized least squares.
type Seasonal struct {
	opt Options
}

func New(opt Options) *Seasonal {
	if opt.IntervalWidth <= 0 {
		opt.IntervalWidth = DefaultOptions().IntervalWidth
	}
	if opt.Ridge <= 0 {
		opt.Ridge = DefaultOptions().Ridge
	}
	return &Seasonal{opt: opt}
}

func NewDefault() *Seasonal { return New(DefaultOptions()) }

// design describes the feature layout used by one fitted model.
type design struct {
	changepoints []float64 // day offsets of trend hinges
	weeklyOrder  int
	yearlyOrder  int
}

func (d *design) size() int {
	return 2 + len(d.changepoints) + 2*d.weeklyOrder + 2*d.yearlyOrder
}

// features builds the regression row for day offset t.
func (d *design) features(t float64) []float64 {
	x := make([]float64, 0, d.size())
	x = append(x, 1, t)
	for _, cp := range d.changepoints {
		if t > cp {
			x = append(x, t-cp)
		} else {
			x = append(x, 0)
		}
	}
	for k := 1; k <= d.weeklyOrder; k++ {
		ang := 2 * math.Pi * float64(k) * t / weekPeriod
		x = append(x, math.Sin(ang), math.Cos(ang))
	}
	for k := 1; k <= d.yearlyOrder; k++ {
		ang := 2 * math.Pi * float64(k) * t / yearPeriod
		x = append(x, math.Sin(ang), math.Cos(ang))
	}
	return x
}

// trendSize is the number of leading coefficients that form the trend.
func (d *design) trendSize() int { return 2 + len(d.changepoints) }

type fitted struct {
	design design
	t0     time.Time
	span   float64 // training span in days
	beta   []float64
	sigma  float64 // residual standard deviation
	z      float64
}

// Fit learns trend and seasonal components from the training prefix only.
func (m *Seasonal) Fit(ctx context.Context, train models.Series) (domsvc.FittedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(train)
	if n < 4 {
		return nil, &models.ConvergenceError{Reason: "too few training points"}
	}

	t0 := train[0].Date
	ts := make([]float64, n)
	y := make([]float64, n)
	for i, p := range train {
		ts[i] = float64(util.DaysBetween(t0, p.Date))
		y[i] = p.Value
	}

	span := ts[n-1]
	if span <= 0 {
		return nil, &models.ConvergenceError{Reason: "training range covers no days"}
	}
	if stat.Variance(y, nil) == 0 {
		return nil, &models.ConvergenceError{Reason: "input series is constant"}
	}

	d := m.layout(n, span)

	p := d.size()
	ridgeRows := p - 1 // intercept stays unpenalized
	a := mat.NewDense(n+ridgeRows, p, nil)
	b := mat.NewVecDense(n+ridgeRows, nil)
	for i := 0; i < n; i++ {
		a.SetRow(i, d.features(ts[i]))
		b.SetVec(i, y[i])
	}
	sq := math.Sqrt(m.opt.Ridge)
	for j := 1; j < p; j++ {
		a.Set(n+j-1, j, sq)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, &models.ConvergenceError{Reason: "least squares solve failed", Err: err}
	}

	beta := make([]float64, p)
	for j := range beta {
		v := sol.AtVec(j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &models.ConvergenceError{Reason: "unstable parameters"}
		}
		beta[j] = v
	}

	resid := make([]float64, n)
	for i := 0; i < n; i++ {
		resid[i] = y[i] - floats.Dot(d.features(ts[i]), beta)
	}
	sigma := stat.StdDev(resid, nil)
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, &models.ConvergenceError{Reason: "residual variance diverged"}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &fitted{
		design: d,
		t0:     t0,
		span:   span,
		beta:   beta,
		sigma:  sigma,
		z:      m.opt.IntervalWidth,
	}, nil
}

// layout decides which components the training data can identify and caps
// the feature count below the observation count.
func (m *Seasonal) layout(n int, span float64) design {
	d := design{}

	if c := m.opt.Changepoints; c > 0 {
		if c > n/4 {
			c = n / 4
		}
		for j := 1; j <= c; j++ {
			d.changepoints = append(d.changepoints, 0.8*span*float64(j)/float64(c+1))
		}
	}
	if span >= 2*weekPeriod {
		d.weeklyOrder = m.opt.WeeklyOrder
	}
	if span >= 2*yearPeriod {
		d.yearlyOrder = m.opt.YearlyOrder
	}

	// Shrink until the design matrix is comfortably overdetermined.
	for d.size() > n-2 {
		switch {
		case d.yearlyOrder > 0:
			d.yearlyOrder--
		case d.weeklyOrder > 0:
			d.weeklyOrder--
		case len(d.changepoints) > 0:
			d.changepoints = d.changepoints[:len(d.changepoints)-1]
		default:
			return d
		}
	}
	return d
}

// Predict extrapolates the fitted components over the given dates. Bound
// width grows linearly with distance past the last training date and is
// constant inside the training range.
func (f *fitted) Predict(dates []time.Time) (models.Forecast, error) {
	out := make(models.Forecast, 0, len(dates))
	for _, date := range dates {
		t := float64(util.DaysBetween(f.t0, date))
		x := f.design.features(t)
		value := floats.Dot(x, f.beta)
		trend := floats.Dot(x[:f.design.trendSize()], f.beta[:f.design.trendSize()])

		over := t - f.span
		if over < 0 {
			over = 0
		}
		width := f.z * f.sigma * (1 + over/f.span)

		out = append(out, models.ForecastPoint{
			Date:  date,
			Value: value,
			Lower: value - width,
			Upper: value + width,
			Trend: trend,
		})
	}
	return out, nil
}
