package features

import (
	"commodity-forecast/internal/model"

	"gonum.org/v1/gonum/stat"
)

const (
	// PriceWindow bounds the price history kept during a forecast.
	PriceWindow = 30
	// ArrivalWindow bounds the arrival history kept during a forecast.
	ArrivalWindow = 3
)

// WindowState carries the bounded price and arrival histories across the
// steps of one forecast. It is owned by a single request.
type WindowState struct {
	prices   []float64
	arrivals []float64
}

// NewWindowState seeds the windows from the tail of a date-sorted history.
func NewWindowState(history []model.Observation) *WindowState {
	w := &WindowState{
		prices:   make([]float64, 0, PriceWindow+1),
		arrivals: make([]float64, 0, ArrivalWindow+1),
	}
	w.prices = append(w.prices, Last(model.Prices(history), PriceWindow)...)
	w.arrivals = append(w.arrivals, Last(model.Arrivals(history), ArrivalWindow)...)
	return w
}

// PushPrice appends a predicted price, evicting the oldest beyond PriceWindow.
func (w *WindowState) PushPrice(p float64) {
	w.prices = pushBounded(w.prices, p, PriceWindow)
}

// ProjectArrival appends the mean of the current arrival window as the next
// arrival value and returns it together with the updated window mean.
// No future arrival data exists, so each projection is self-referential.
func (w *WindowState) ProjectArrival() (next, mean float64) {
	if len(w.arrivals) == 0 {
		return 0, 0
	}
	next = stat.Mean(w.arrivals, nil)
	w.arrivals = pushBounded(w.arrivals, next, ArrivalWindow)
	return next, stat.Mean(w.arrivals, nil)
}

// Rolling returns the mean and population standard deviation of the last
// min(window, len) prices.
func (w *WindowState) Rolling(window int) (mean, std float64) {
	if len(w.prices) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(Last(w.prices, window), nil)
}

// Prices returns a copy of the current price window.
func (w *WindowState) Prices() []float64 {
	return append([]float64(nil), w.prices...)
}

// Arrivals returns a copy of the current arrival window.
func (w *WindowState) Arrivals() []float64 {
	return append([]float64(nil), w.arrivals...)
}

func pushBounded(xs []float64, v float64, limit int) []float64 {
	xs = append(xs, v)
	if len(xs) > limit {
		copy(xs, xs[len(xs)-limit:])
		xs = xs[:limit]
	}
	return xs
}
