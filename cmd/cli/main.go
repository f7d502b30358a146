package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"commodity-forecast/internal/analysis"
	"commodity-forecast/internal/config"
	"commodity-forecast/internal/data"
	"commodity-forecast/internal/forecast"
	"commodity-forecast/internal/model"
	"commodity-forecast/internal/regressor"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "predict":
		err = cmdPredict(os.Args[2:])
	case "markets":
		err = cmdMarkets(os.Args[2:])
	case "varieties":
		err = cmdVarieties(os.Args[2:])
	case "summary":
		err = cmdSummary(os.Args[2:])
	case "rank":
		err = cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, forecast.ErrInvalidArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli predict --market Mumbai --variety Sugar --days 5 [--out results/forecast.csv]")
	fmt.Println("  cli markets")
	fmt.Println("  cli varieties --market Mumbai")
	fmt.Println("  cli summary --market Mumbai --variety Sugar")
	fmt.Println("  cli rank --market Mumbai")
	fmt.Println("")
	fmt.Println("common flags: --config config.yaml --data <dataset> --model <artifact>")
	fmt.Println("notes:")
	fmt.Println("  - predict writes one CSV row per day, including the features the model saw")
	fmt.Println("  - rank orders varieties of a market by historical p95-p05 price spread")
}

// common holds the flags every subcommand accepts.
type common struct {
	cfgPath   *string
	dataPath  *string
	modelPath *string
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath:   fs.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)"),
		dataPath:  fs.String("data", "", "Dataset path (overrides config)"),
		modelPath: fs.String("model", "", "Model artifact path (overrides config)"),
	}
}

func (c common) load() (*config.Config, *data.Store, error) {
	cfg, err := config.Load(*c.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if *c.dataPath != "" {
		cfg.Dataset.Path = *c.dataPath
	}
	if *c.modelPath != "" {
		cfg.Model.Path = *c.modelPath
	}
	store, err := data.LoadFile(cfg.Dataset.Path, cfg.Dataset.LoadOptions())
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func cmdPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	cf := commonFlags(fs)
	market := fs.String("market", "", "Market name")
	variety := fs.String("variety", "", "Variety name")
	days := fs.Int("days", 7, "Forecast horizon in days")
	outPath := fs.String("out", "", "Optional CSV path for the per-day ledger")
	_ = fs.Parse(args)

	cfg, store, err := cf.load()
	if err != nil {
		return err
	}
	m, err := regressor.Load(cfg.Model.Path)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := forecast.NewService(store, m, cfg.Forecast.MaxHorizon)
	res, err := svc.Forecast(ctx, model.ForecastRequest{Market: *market, Variety: *variety, Days: *days})
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-12s\n", "date", "price")
	for _, p := range res.Predictions() {
		fmt.Printf("%-12s %-12.2f\n", p.Date.Format(model.DateLayout), p.Price)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			return err
		}
		if err := forecast.WriteStepsCSV(*outPath, res.Steps); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s (model %s)\n", len(res.Steps), *outPath, res.Model)
	}
	return nil
}

func cmdMarkets(args []string) error {
	fs := flag.NewFlagSet("markets", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)

	_, store, err := cf.load()
	if err != nil {
		return err
	}
	for _, m := range store.Markets() {
		fmt.Println(m)
	}
	return nil
}

func cmdVarieties(args []string) error {
	fs := flag.NewFlagSet("varieties", flag.ExitOnError)
	cf := commonFlags(fs)
	market := fs.String("market", "", "Market name")
	_ = fs.Parse(args)

	if *market == "" {
		return fmt.Errorf("%w: --market is required", forecast.ErrInvalidArgument)
	}
	_, store, err := cf.load()
	if err != nil {
		return err
	}
	for _, v := range store.Varieties(*market) {
		fmt.Println(v)
	}
	return nil
}

func cmdSummary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	cf := commonFlags(fs)
	market := fs.String("market", "", "Market name")
	variety := fs.String("variety", "", "Variety name")
	_ = fs.Parse(args)

	_, store, err := cf.load()
	if err != nil {
		return err
	}
	rows := store.Series(*market, *variety)
	if len(rows) == 0 {
		return fmt.Errorf("%w: no historical data for %s - %s", forecast.ErrNotFound, *market, *variety)
	}
	s := analysis.Summarize(rows)
	fmt.Printf("%s - %s: %d rows %s..%s\n", s.Market, s.Variety, s.Count,
		s.Start.Format(model.DateLayout), s.End.Format(model.DateLayout))
	fmt.Printf("  min/mean/max  %.2f / %.2f / %.2f (std %.2f)\n", s.MinPrice, s.MeanPrice, s.MaxPrice, s.StdPrice)
	fmt.Printf("  p05/p95       %.2f / %.2f (spread %.2f)\n", s.P05Price, s.P95Price, s.SpreadP95P05)
	fmt.Printf("  last          %.2f (%+.1f%% since start)\n", s.LastPrice, s.ChangePct)
	fmt.Printf("  mean arrivals %.2f t\n", s.MeanArrivals)
	return nil
}

func cmdRank(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	cf := commonFlags(fs)
	market := fs.String("market", "", "Market name")
	_ = fs.Parse(args)

	_, store, err := cf.load()
	if err != nil {
		return err
	}
	byVariety := store.GroupByMarket(*market)
	if len(byVariety) == 0 {
		return fmt.Errorf("%w: no historical data for market %s", forecast.ErrNotFound, *market)
	}

	ranked := analysis.RankBySpread(byVariety)
	fmt.Printf("%-4s %-20s %-8s %-10s %-15s %-10s\n", "rank", "variety", "count", "p95-p05", "min/max", "change%")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-20s %-8d %-10.2f %-7.1f/%-7.1f %-10.1f\n",
			i+1,
			r.Variety,
			r.Count,
			r.SpreadP95P05,
			r.MinPrice,
			r.MaxPrice,
			r.ChangePct,
		)
	}
	return nil
}
