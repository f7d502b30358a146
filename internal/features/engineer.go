package features

import (
	"errors"
	"fmt"

	"commodity-forecast/internal/model"

	"gonum.org/v1/gonum/stat"
)

// MinHistory is the number of rows needed to fill Lag_1..Lag_3.
const MinHistory = 3

var (
	// ErrNoHistory is returned when the series has no rows at all.
	ErrNoHistory = errors.New("no historical data")
	// ErrShortHistory is returned when the series has fewer than MinHistory rows.
	ErrShortHistory = errors.New("insufficient history")
)

// Build derives the initial feature vector for (market, variety) from its
// date-sorted history. Market and Variety are echoed, not read from rows.
func Build(market, variety string, history []model.Observation) (model.FeatureVector, error) {
	if len(history) == 0 {
		return model.FeatureVector{}, fmt.Errorf("%w for %s - %s", ErrNoHistory, market, variety)
	}
	if len(history) < MinHistory {
		return model.FeatureVector{}, fmt.Errorf("%w for %s - %s: need %d rows, have %d",
			ErrShortHistory, market, variety, MinHistory, len(history))
	}

	latest := history[len(history)-1]
	prices := model.Prices(history)
	arrivals := model.Arrivals(history)

	fv := model.FeatureVector{
		Market:         market,
		Variety:        variety,
		ArrivalsTonnes: latest.ArrivalsTonnes,
		Lag1:           prices[len(prices)-1],
		Lag2:           prices[len(prices)-2],
		Lag3:           prices[len(prices)-3],
	}
	fv.SetCalendar(latest.Date)

	for _, w := range model.RollingWindows {
		mean, std := stat.MeanStdDev(Last(prices, w), nil)
		if err := fv.SetRolling(w, mean, std); err != nil {
			return model.FeatureVector{}, err
		}
	}
	fv.ArrivalRollingMean3 = stat.Mean(Last(arrivals, ArrivalWindow), nil)

	return fv, nil
}

// Last returns the trailing min(n, len(xs)) elements of xs.
func Last(xs []float64, n int) []float64 {
	if n < len(xs) {
		return xs[len(xs)-n:]
	}
	return xs
}
