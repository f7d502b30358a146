package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"commodity-forecast/internal/model"
)

func history(prices ...float64) []model.Observation {
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Observation, len(prices))
	for i, p := range prices {
		out[i] = model.Observation{
			Market:         "Mumbai",
			Variety:        "Sugar",
			Date:           start.AddDate(0, 0, i),
			MinPrice:       p,
			ArrivalsTonnes: float64(i + 1),
		}
	}
	return out
}

func naiveMeanStd(xs []float64, sample bool) (float64, float64) {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	n := float64(len(xs))
	if sample {
		n--
	}
	return mean, math.Sqrt(ss / n)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildComputesLagsAndRollingStats(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 40 + float64(i%7)*1.5 + float64(i)/10
	}
	h := history(prices...)

	fv, err := Build("Mumbai", "Sugar", h)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fv.Market != "Mumbai" || fv.Variety != "Sugar" {
		t.Fatalf("expected echoed market/variety, got %s/%s", fv.Market, fv.Variety)
	}
	if fv.Lag1 != prices[39] || fv.Lag2 != prices[38] || fv.Lag3 != prices[37] {
		t.Fatalf("unexpected lags %v %v %v", fv.Lag1, fv.Lag2, fv.Lag3)
	}
	if fv.ArrivalsTonnes != 40 {
		t.Fatalf("expected latest arrivals 40, got %v", fv.ArrivalsTonnes)
	}
	if !almostEqual(fv.ArrivalRollingMean3, 39) {
		t.Fatalf("expected arrival mean 39, got %v", fv.ArrivalRollingMean3)
	}

	latest := h[len(h)-1].Date
	if fv.Year != latest.Year() || fv.Month != int(latest.Month()) || fv.Day != latest.Day() {
		t.Fatalf("calendar fields do not match latest date %v", latest)
	}

	checks := []struct {
		window    int
		mean, std float64
	}{
		{7, fv.RollingMean7, fv.RollingStd7},
		{14, fv.RollingMean14, fv.RollingStd14},
		{30, fv.RollingMean30, fv.RollingStd30},
	}
	for _, c := range checks {
		wantMean, wantStd := naiveMeanStd(prices[len(prices)-c.window:], true)
		if !almostEqual(c.mean, wantMean) || !almostEqual(c.std, wantStd) {
			t.Fatalf("window %d: expected %v/%v, got %v/%v", c.window, wantMean, wantStd, c.mean, c.std)
		}
	}
}

func TestBuildUsesAvailableRowsForShortSeries(t *testing.T) {
	prices := []float64{47, 48, 50, 49, 51}
	fv, err := Build("Mumbai", "Sugar", history(prices...))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantMean, wantStd := naiveMeanStd(prices, true)
	for _, got := range [][2]float64{
		{fv.RollingMean7, fv.RollingStd7},
		{fv.RollingMean14, fv.RollingStd14},
		{fv.RollingMean30, fv.RollingStd30},
	} {
		if !almostEqual(got[0], wantMean) || !almostEqual(got[1], wantStd) {
			t.Fatalf("expected %v/%v over all 5 rows, got %v/%v", wantMean, wantStd, got[0], got[1])
		}
	}
}

func TestBuildPreconditions(t *testing.T) {
	if _, err := Build("Mumbai", "Sugar", nil); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if _, err := Build("Mumbai", "Sugar", history(47, 48)); !errors.Is(err, ErrShortHistory) {
		t.Fatalf("expected ErrShortHistory, got %v", err)
	}
	if _, err := Build("Mumbai", "Sugar", history(47, 48, 50)); err != nil {
		t.Fatalf("3 rows should be enough, got %v", err)
	}
}

func TestLast(t *testing.T) {
	xs := []float64{1, 2, 3}
	if got := Last(xs, 2); len(got) != 2 || got[0] != 2 {
		t.Fatalf("unexpected %v", got)
	}
	if got := Last(xs, 7); len(got) != 3 {
		t.Fatalf("expected whole slice, got %v", got)
	}
}
