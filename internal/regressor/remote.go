package regressor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commodity-forecast/internal/model"

	"github.com/go-resty/resty/v2"
)

const defaultRemoteTimeout = 10 * time.Second

// Remote delegates scoring to an HTTP sidecar that hosts the trained model.
// The sidecar receives encoded rows in canonical order:
//
//	POST {endpoint}
//	{"model": "...", "columns": [...18 names...], "rows": [[...]]}
//
// and answers {"predictions": [price]}.
type Remote struct {
	name     string
	endpoint string
	client   *resty.Client
	encoder  *Encoder
}

type scoreRequest struct {
	Model   string      `json:"model"`
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type scoreResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

func newRemote(a Artifact, enc *Encoder) (*Remote, error) {
	if a.Endpoint == "" {
		return nil, errors.New("remote model requires endpoint")
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	name := a.Name
	if name == "" {
		name = "remote"
	}
	return &Remote{
		name:     name,
		endpoint: a.Endpoint,
		client:   client,
		encoder:  enc,
	}, nil
}

func (r *Remote) Name() string { return r.name }

func (r *Remote) Predict(ctx context.Context, fv model.FeatureVector) (float64, error) {
	var out scoreResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(scoreRequest{
			Model:   r.name,
			Columns: model.FeatureOrder,
			Rows:    [][]float64{r.encoder.Encode(fv)},
		}).
		SetResult(&out).
		SetError(&out).
		Post(r.endpoint)
	if err != nil {
		return 0, fmt.Errorf("scorer request failed: %w", err)
	}
	if resp.IsError() {
		msg := out.Error
		if msg == "" {
			msg = resp.Status()
		}
		return 0, fmt.Errorf("scorer returned %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Predictions) != 1 {
		return 0, fmt.Errorf("scorer returned %d predictions, expected 1", len(out.Predictions))
	}
	return out.Predictions[0], nil
}
