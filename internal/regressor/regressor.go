package regressor

import (
	"context"

	"commodity-forecast/internal/model"
)

// Regressor maps one feature vector to a price. Implementations must be safe
// for concurrent use; they are loaded once and shared by all requests.
type Regressor interface {
	Name() string
	Predict(ctx context.Context, fv model.FeatureVector) (float64, error)
}

// Func adapts a plain function to Regressor. Handy for tests and tooling.
type Func func(ctx context.Context, fv model.FeatureVector) (float64, error)

func (f Func) Name() string { return "func" }

func (f Func) Predict(ctx context.Context, fv model.FeatureVector) (float64, error) {
	return f(ctx, fv)
}
