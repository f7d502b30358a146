package regressor

import (
	"context"
	"fmt"

	"commodity-forecast/internal/model"
)

// Linear is an additive model: intercept + Σ weight·feature over numeric
// columns + a per-level effect for each categorical column.
type Linear struct {
	name      string
	intercept float64
	weights   []float64   // aligned with model.FeatureOrder; 0 for categoricals
	effects   [][]float64 // aligned with model.FeatureOrder; nil for numerics
	encoder   *Encoder
}

func newLinear(a Artifact, enc *Encoder) (*Linear, error) {
	pos := make(map[string]int, len(model.FeatureOrder))
	for i, name := range model.FeatureOrder {
		pos[name] = i
	}

	l := &Linear{
		name:      a.Name,
		intercept: a.Intercept,
		weights:   make([]float64, len(model.FeatureOrder)),
		effects:   make([][]float64, len(model.FeatureOrder)),
		encoder:   enc,
	}
	if l.name == "" {
		l.name = "linear"
	}
	for name, w := range a.Weights {
		i, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("weight for unknown feature %q", name)
		}
		if isCategorical(name) {
			return nil, fmt.Errorf("feature %q is categorical; use categories.%s.effects", name, name)
		}
		l.weights[i] = w
	}
	for col, c := range a.Categories {
		if len(c.Effects) == 0 {
			continue
		}
		if len(c.Effects) != len(c.Levels) {
			return nil, fmt.Errorf("column %q: %d effects for %d levels", col, len(c.Effects), len(c.Levels))
		}
		l.effects[pos[col]] = c.Effects
	}
	return l, nil
}

func (l *Linear) Name() string { return l.name }

// Predict evaluates the model. Unknown category levels contribute nothing.
func (l *Linear) Predict(ctx context.Context, fv model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	row := l.encoder.Encode(fv)
	y := l.intercept
	for i, x := range row {
		if eff := l.effects[i]; eff != nil {
			if code := int(x); code >= 0 && code < len(eff) {
				y += eff[code]
			}
			continue
		}
		y += l.weights[i] * x
	}
	return y, nil
}
