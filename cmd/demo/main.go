package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"commodity-forecast/internal/api/models"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
)

// Demo:
// - POST a forecast request to a running API server
// - Print the predictions
// - Save the JSON response to a file
func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	url := flag.String("url", baseURL, "Base URL of the API server")
	market := flag.String("market", "Mumbai", "Market name")
	variety := flag.String("variety", "Sugar", "Variety name")
	days := flag.Int("days", 5, "Forecast horizon in days")
	out := flag.String("out", "predictions.json", "Where to save the response")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*url).
		SetTimeout(30 * time.Second)

	var (
		result  models.PredictResponse
		failure models.ErrorResponse
	)
	resp, err := client.R().
		SetBody(models.PredictRequest{Market: *market, Variety: *variety, Days: *days}).
		SetResult(&result).
		SetError(&failure).
		Post("/predict")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "Error: %d\n", resp.StatusCode())
		if failure.Error.Message != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", failure.Error.Code, failure.Error.Message)
		} else {
			fmt.Fprintln(os.Stderr, resp.String())
		}
		os.Exit(1)
	}

	fmt.Printf("%s - %s\n", result.Market, result.Variety)
	for _, p := range result.Predictions {
		fmt.Printf("  %s  %.2f\n", p.Date, p.Price)
	}

	raw, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		panic(err)
	}
	fmt.Printf("Saved %d predictions to %s\n", len(result.Predictions), *out)
}
