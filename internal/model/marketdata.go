package model

import "time"

// DateLayout is the calendar-date format used on the wire and in CSV output.
const DateLayout = "2006-01-02"

// Observation is one row of the historical dataset.
//
// Example (CSV):
//
//	Market,Variety,Arrival Date,Minimum Price(Rs./Quintal),Arrivals (Tonnes)
//	Mumbai,Sugar,2024-01-10,50.00,12.5
type Observation struct {
	Market  string
	Variety string

	// Date is a calendar date (midnight UTC).
	Date time.Time

	// MinPrice is the minimum traded price for the day.
	MinPrice float64
	// ArrivalsTonnes is the arrival volume for the day.
	ArrivalsTonnes float64
}

// SeriesKey identifies one (market, variety) series.
type SeriesKey struct {
	Market  string
	Variety string
}

func (o Observation) Key() SeriesKey {
	return SeriesKey{Market: o.Market, Variety: o.Variety}
}

// Prices extracts the minimum prices of obs in order.
func Prices(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.MinPrice
	}
	return out
}

// Arrivals extracts the arrival volumes of obs in order.
func Arrivals(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.ArrivalsTonnes
	}
	return out
}

// TruncateDate drops the clock part of t and returns the date at midnight UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
