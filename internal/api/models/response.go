package models

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	Market      string       `json:"market"`
	Variety     string       `json:"variety"`
	Predictions []Prediction `json:"predictions"`
}

// Prediction is one forecast day.
type Prediction struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

type MarketsResponse struct {
	Markets []string `json:"markets"`
}

type VarietiesResponse struct {
	Varieties []string `json:"varieties"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Observations int    `json:"observations"`
}

// SummaryResponse describes the history of one (market, variety) series.
type SummaryResponse struct {
	Market       string     `json:"market"`
	Variety      string     `json:"variety"`
	Window       DateWindow `json:"window"`
	Count        int        `json:"count"`
	MinPrice     float64    `json:"min_price"`
	MaxPrice     float64    `json:"max_price"`
	MeanPrice    float64    `json:"mean_price"`
	StdPrice     float64    `json:"std_price"`
	P05Price     float64    `json:"p05_price"`
	P95Price     float64    `json:"p95_price"`
	SpreadP95P05 float64    `json:"spread_p95_p05"`
	LastPrice    float64    `json:"last_price"`
	ChangePct    float64    `json:"change_pct"`
	MeanArrivals float64    `json:"mean_arrivals"`
}

// DateWindow is an inclusive date range.
type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RankResponse represents the response from ranking varieties
type RankResponse struct {
	Market   string    `json:"market"`
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked variety
type Ranking struct {
	Rank         int     `json:"rank"`
	Variety      string  `json:"variety"`
	Count        int     `json:"count"`
	SpreadP95P05 float64 `json:"spread_p95_p05"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	LastPrice    float64 `json:"last_price"`
	ChangePct    float64 `json:"change_pct"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
