package forecast

import (
	"time"

	"commodity-forecast/internal/model"
)

// StepRow is one row of per-day output.
// Features holds the exact vector the model was called with for that day.
type StepRow struct {
	Index int

	Date time.Time

	Market  string
	Variety string

	RawPrice float64
	Price    float64 // RawPrice rounded to 2 decimal places

	Features model.FeatureVector
}

type Result struct {
	Model string
	Steps []StepRow
}

// Predictions returns the steps in the caller-facing shape.
func (r *Result) Predictions() []model.PredictionStep {
	out := make([]model.PredictionStep, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = model.PredictionStep{Date: s.Date, Price: s.Price}
	}
	return out
}
