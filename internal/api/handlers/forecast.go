package handlers

import (
	"context"
	"net/http"

	"commodity-forecast/internal/api/models"
	"commodity-forecast/internal/forecast"
	"commodity-forecast/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Forecaster runs a full forecast for one request.
type Forecaster interface {
	Forecast(ctx context.Context, req model.ForecastRequest) (*forecast.Result, error)
}

// ForecastObserver receives forecast outcomes; the metrics recorder
// implements it.
type ForecastObserver interface {
	RecordForecast(outcome string, days int)
}

// ForecastHandler handles prediction requests
type ForecastHandler struct {
	svc      Forecaster
	log      zerolog.Logger
	observer ForecastObserver
}

// NewForecastHandler creates a new forecast handler. observer may be nil.
func NewForecastHandler(svc Forecaster, log zerolog.Logger, observer ForecastObserver) *ForecastHandler {
	return &ForecastHandler{svc: svc, log: log, observer: observer}
}

// Predict handles POST /predict
func (h *ForecastHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.record(outcomeInvalid, 0)
		writeBindError(c, err)
		return
	}

	res, err := h.svc.Forecast(c.Request.Context(), model.ForecastRequest{
		Market:  req.Market,
		Variety: req.Variety,
		Days:    req.Days,
	})
	if err != nil {
		status, code, outcome := classify(err)
		h.record(outcome, req.Days)
		ev := h.log.Warn()
		if status >= http.StatusInternalServerError {
			ev = h.log.Error()
		}
		ev.Err(err).
			Str("market", req.Market).
			Str("variety", req.Variety).
			Int("days", req.Days).
			Msg("forecast failed")
		writeError(c, status, code, err.Error(), nil)
		return
	}
	h.record(outcomeOK, req.Days)

	preds := make([]models.Prediction, len(res.Steps))
	for i, s := range res.Steps {
		preds[i] = models.Prediction{
			Date:  s.Date.Format(model.DateLayout),
			Price: s.Price,
		}
	}
	c.JSON(http.StatusOK, models.PredictResponse{
		Market:      req.Market,
		Variety:     req.Variety,
		Predictions: preds,
	})
}

func (h *ForecastHandler) record(outcome string, days int) {
	if h.observer != nil {
		h.observer.RecordForecast(outcome, days)
	}
}
