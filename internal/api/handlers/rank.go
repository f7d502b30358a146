package handlers

import (
	"net/http"

	"commodity-forecast/internal/analysis"
	"commodity-forecast/internal/api/models"
	"commodity-forecast/internal/model"

	"github.com/gin-gonic/gin"
)

// SeriesSource gives read access to historical series.
type SeriesSource interface {
	Varieties(market string) []string
	Series(market, variety string) ([]model.Observation, error)
}

// AnalysisHandler handles history summary and ranking requests
type AnalysisHandler struct {
	src SeriesSource
}

func NewAnalysisHandler(src SeriesSource) *AnalysisHandler {
	return &AnalysisHandler{src: src}
}

// Summary handles GET /summary?market=&variety=
func (h *AnalysisHandler) Summary(c *gin.Context) {
	var q models.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	rows, err := h.src.Series(q.Market, q.Variety)
	if err != nil {
		status, code, _ := classify(err)
		writeError(c, status, code, err.Error(), nil)
		return
	}
	s := analysis.Summarize(rows)
	c.JSON(http.StatusOK, models.SummaryResponse{
		Market:  q.Market,
		Variety: q.Variety,
		Window: models.DateWindow{
			Start: s.Start.Format(model.DateLayout),
			End:   s.End.Format(model.DateLayout),
		},
		Count:        s.Count,
		MinPrice:     s.MinPrice,
		MaxPrice:     s.MaxPrice,
		MeanPrice:    s.MeanPrice,
		StdPrice:     s.StdPrice,
		P05Price:     s.P05Price,
		P95Price:     s.P95Price,
		SpreadP95P05: s.SpreadP95P05,
		LastPrice:    s.LastPrice,
		ChangePct:    s.ChangePct,
		MeanArrivals: s.MeanArrivals,
	})
}

// RankVarieties handles GET /rank?market=&limit=
func (h *AnalysisHandler) RankVarieties(c *gin.Context) {
	var q models.RankQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	varieties := h.src.Varieties(q.Market)
	if len(varieties) == 0 {
		writeError(c, http.StatusNotFound, CodeNotFound, "no historical data for market "+q.Market, nil)
		return
	}
	byVariety := make(map[string][]model.Observation, len(varieties))
	for _, v := range varieties {
		rows, err := h.src.Series(q.Market, v)
		if err != nil {
			continue
		}
		byVariety[v] = rows
	}

	ranked := analysis.RankBySpread(byVariety)
	if q.Limit > 0 && q.Limit < len(ranked) {
		ranked = ranked[:q.Limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:         i + 1,
			Variety:      r.Variety,
			Count:        r.Count,
			SpreadP95P05: r.SpreadP95P05,
			MinPrice:     r.MinPrice,
			MaxPrice:     r.MaxPrice,
			LastPrice:    r.LastPrice,
			ChangePct:    r.ChangePct,
		}
	}
	c.JSON(http.StatusOK, models.RankResponse{Market: q.Market, Rankings: rankings})
}
