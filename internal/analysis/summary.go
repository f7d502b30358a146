package analysis

import (
	"math"
	"sort"
	"time"

	"commodity-forecast/internal/model"

	"gonum.org/v1/gonum/stat"
)

// PriceSummary describes the historical price distribution of one
// (market, variety) series. It is what the summary endpoint and the
// variety ranking are built from.
type PriceSummary struct {
	Market  string
	Variety string

	Start time.Time
	End   time.Time

	Count int

	MinPrice  float64
	MaxPrice  float64
	MeanPrice float64
	StdPrice  float64
	P05Price  float64
	P95Price  float64

	SpreadP95P05 float64

	LastPrice float64
	// ChangePct is the move from the first to the last price, in percent.
	ChangePct float64

	MeanArrivals float64
}

// Summarize expects rows of a single series sorted by date.
func Summarize(rows []model.Observation) PriceSummary {
	s := PriceSummary{}
	if len(rows) == 0 {
		return s
	}
	s.Market = rows[0].Market
	s.Variety = rows[0].Variety
	s.Count = len(rows)
	s.Start = rows[0].Date
	s.End = rows[len(rows)-1].Date

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := r.MinPrice
		vals = append(vals, v)
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	s.MinPrice = minv
	s.MaxPrice = maxv
	s.MeanPrice, s.StdPrice = stat.PopMeanStdDev(vals, nil)
	s.LastPrice = vals[len(vals)-1]
	if first := vals[0]; first != 0 {
		s.ChangePct = (s.LastPrice - first) / first * 100
	}
	s.MeanArrivals = stat.Mean(model.Arrivals(rows), nil)

	sort.Float64s(vals)
	s.P05Price = percentileSorted(vals, 0.05)
	s.P95Price = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95Price - s.P05Price
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
