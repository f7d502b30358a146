package forecast

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes such as a non-positive horizon.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a (market, variety) pair with no historical rows.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientHistory marks a series too short to fill the lag features.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrNonFinitePrediction marks a model output that is NaN or infinite.
	ErrNonFinitePrediction = errors.New("non-finite prediction")
)
