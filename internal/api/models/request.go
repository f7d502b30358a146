package models

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Market  string `json:"market" binding:"required"`
	Variety string `json:"variety" binding:"required"`
	Days    int    `json:"days" binding:"required,gte=1"`
}

// VarietiesQuery is the query of GET /varieties.
type VarietiesQuery struct {
	Market string `form:"market" binding:"required"`
}

// SummaryQuery is the query of GET /summary.
type SummaryQuery struct {
	Market  string `form:"market" binding:"required"`
	Variety string `form:"variety" binding:"required"`
}

// RankQuery is the query of GET /rank.
type RankQuery struct {
	Market string `form:"market" binding:"required"`
	Limit  int    `form:"limit,omitempty" binding:"gte=0"` // 0 = all
}
