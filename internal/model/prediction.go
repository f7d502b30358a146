package model

import "time"

// PredictionStep is one forecast day as reported to callers.
type PredictionStep struct {
	Date  time.Time
	Price float64 // rounded to 2 decimal places
}

// ForecastRequest is the canonical "inputs to the system" object.
type ForecastRequest struct {
	Market  string
	Variety string
	Days    int
}
