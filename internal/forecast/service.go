package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"commodity-forecast/internal/features"
	"commodity-forecast/internal/model"
	"commodity-forecast/internal/regressor"
)

// History is the read-only view of the historical store the service needs.
type History interface {
	Markets() []string
	Varieties(market string) []string
	Series(market, variety string) []model.Observation
	Tail(market, variety string, n int) []model.Observation
}

// Service ties the historical store, the feature engineer and the
// prediction loop together. It holds no per-request state and is safe for
// concurrent use as long as the store and model are.
type Service struct {
	store      History
	engine     *Engine
	maxHorizon int
}

// DefaultMaxHorizon caps the days of one request when no cap is given.
const DefaultMaxHorizon = 365

// NewService builds a Service. maxHorizon <= 0 means DefaultMaxHorizon.
func NewService(store History, m regressor.Regressor, maxHorizon int) *Service {
	if maxHorizon <= 0 {
		maxHorizon = DefaultMaxHorizon
	}
	return &Service{store: store, engine: NewEngine(m), maxHorizon: maxHorizon}
}

func (s *Service) Markets() []string { return s.store.Markets() }

func (s *Service) Varieties(market string) []string { return s.store.Varieties(market) }

// Series returns the date-sorted history of one pair, or ErrNotFound.
func (s *Service) Series(market, variety string) ([]model.Observation, error) {
	rows := s.store.Series(market, variety)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no historical data for %s - %s", ErrNotFound, market, variety)
	}
	return rows, nil
}

// Engineer derives the initial feature vector for (market, variety).
func (s *Service) Engineer(market, variety string) (model.FeatureVector, error) {
	if err := checkPair(market, variety); err != nil {
		return model.FeatureVector{}, err
	}
	fv, err := features.Build(market, variety, s.store.Series(market, variety))
	if err != nil {
		return model.FeatureVector{}, classify(err)
	}
	return fv, nil
}

// Predict runs the prediction loop from initial for days steps. The
// windows are seeded from the most recent stored rows of (market, variety).
func (s *Service) Predict(ctx context.Context, initial model.FeatureVector, market, variety string, days int) (*Result, error) {
	if err := s.checkDays(days); err != nil {
		return nil, err
	}
	rows := s.store.Tail(market, variety, features.PriceWindow)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no historical data for %s - %s", ErrNotFound, market, variety)
	}
	return s.engine.Run(ctx, initial, rows, days)
}

// Forecast is Engineer followed by Predict.
func (s *Service) Forecast(ctx context.Context, req model.ForecastRequest) (*Result, error) {
	if err := s.checkDays(req.Days); err != nil {
		return nil, err
	}
	fv, err := s.Engineer(req.Market, req.Variety)
	if err != nil {
		return nil, err
	}
	return s.Predict(ctx, fv, req.Market, req.Variety, req.Days)
}

func (s *Service) checkDays(days int) error {
	if days < 1 {
		return fmt.Errorf("%w: days must be >= 1, got %d", ErrInvalidArgument, days)
	}
	if days > s.maxHorizon {
		return fmt.Errorf("%w: days must be <= %d, got %d", ErrInvalidArgument, s.maxHorizon, days)
	}
	return nil
}

func checkPair(market, variety string) error {
	var missing []string
	if strings.TrimSpace(market) == "" {
		missing = append(missing, "market")
	}
	if strings.TrimSpace(variety) == "" {
		missing = append(missing, "variety")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, features.ErrNoHistory):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, features.ErrShortHistory):
		return fmt.Errorf("%w: %v", ErrInsufficientHistory, err)
	default:
		return err
	}
}
