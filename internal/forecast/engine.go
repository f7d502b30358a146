package forecast

import (
	"context"
	"fmt"
	"math"

	"commodity-forecast/internal/features"
	"commodity-forecast/internal/model"
	"commodity-forecast/internal/regressor"

	"github.com/shopspring/decimal"
)

const (
	// PriceDecimals is the precision of emitted prices.
	PriceDecimals = 2

	maxPreallocSteps = 366
	// exactDigits is the smallest binary exponent of a float64. decimal
	// clamps it to the value's own exponent, so the conversion is exact.
	exactDigits = -1074
)

type Engine struct {
	model regressor.Regressor
}

func NewEngine(m regressor.Regressor) *Engine { return &Engine{model: m} }

// Run rolls the model forward days times starting from initial, whose
// calendar fields hold the latest historical date. history seeds the price
// and arrival windows and must be sorted by date.
//
// Each step feeds the raw model output back into the lags and rolling
// statistics; only the reported price is rounded. Any model error aborts
// the whole run.
func (e *Engine) Run(ctx context.Context, initial model.FeatureVector, history []model.Observation, days int) (*Result, error) {
	if e.model == nil {
		return nil, fmt.Errorf("model is nil")
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be >= 1, got %d", ErrInvalidArgument, days)
	}

	fv := initial
	win := features.NewWindowState(history)
	date := initial.Date()
	steps := make([]StepRow, 0, min(days, maxPreallocSteps))

	for idx := 0; idx < days; idx++ {
		date = date.AddDate(0, 0, 1)
		fv.SetCalendar(date)

		raw, err := e.model.Predict(ctx, fv)
		if err != nil {
			return nil, fmt.Errorf("day %d (%s) predict: %w", idx+1, date.Format(model.DateLayout), err)
		}
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return nil, fmt.Errorf("day %d (%s) predict: %w: model returned %v",
				idx+1, date.Format(model.DateLayout), ErrNonFinitePrediction, raw)
		}

		steps = append(steps, StepRow{
			Index:    idx,
			Date:     date,
			Market:   fv.Market,
			Variety:  fv.Variety,
			RawPrice: raw,
			Price:    RoundPrice(raw),
			Features: fv,
		})

		fv.ShiftLags(raw)

		next, mean := win.ProjectArrival()
		fv.ArrivalsTonnes = next
		fv.ArrivalRollingMean3 = mean

		win.PushPrice(raw)
		for _, w := range model.RollingWindows {
			m, sd := win.Rolling(w)
			if err := fv.SetRolling(w, m, sd); err != nil {
				return nil, err
			}
		}
	}

	return &Result{Model: e.model.Name(), Steps: steps}, nil
}

// RoundPrice rounds the exact binary value of p to PriceDecimals places,
// ties to even. 2.675 is stored as 2.67499... and rounds to 2.67.
// p must be finite.
func RoundPrice(p float64) float64 {
	f, _ := decimal.NewFromFloatWithExponent(p, exactDigits).RoundBank(PriceDecimals).Float64()
	return f
}
