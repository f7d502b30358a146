package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"commodity-forecast/internal/model"
)

// Columns names the dataset headers holding each observation field.
type Columns struct {
	Market   string
	Variety  string
	Date     string
	MinPrice string
	Arrivals string
}

// DefaultColumns matches the headers of the published dataset.
func DefaultColumns() Columns {
	return Columns{
		Market:   "Market",
		Variety:  "Variety",
		Date:     "Arrival Date",
		MinPrice: "Minimum Price(Rs./Quintal)",
		Arrivals: "Arrivals (Tonnes)",
	}
}

// LoadOptions controls how a dataset file is decoded.
type LoadOptions struct {
	// Format is "csv" or "xlsx". Empty infers it from the file extension.
	Format string
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
	// DateLayout is tried before the built-in layouts.
	DateLayout string
	Columns    Columns
}

var fallbackDateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadFile reads a CSV or XLSX dataset and builds a Store from it.
func LoadFile(path string, opts LoadOptions) (*Store, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var obs []model.Observation
	switch format {
	case "csv":
		obs, err = ReadCSV(f, opts)
	case "xlsx":
		obs, err = ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	if len(obs) == 0 {
		return nil, errors.New("dataset contains no observations")
	}
	return NewStore(obs), nil
}

// decodeTable turns a header row plus data rows into observations.
// Blank rows are skipped; a malformed value fails the whole load.
func decodeTable(header []string, rows [][]string, opts LoadOptions) ([]model.Observation, error) {
	cols := resolveColumns(opts)

	lookup := func(name string) (int, error) {
		i, ok := columnIndex(header, name)
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}

	var (
		iMarket, iVariety, iDate, iPrice, iArrivals int
		err                                         error
	)
	if iMarket, err = lookup(cols.Market); err != nil {
		return nil, err
	}
	if iVariety, err = lookup(cols.Variety); err != nil {
		return nil, err
	}
	if iDate, err = lookup(cols.Date); err != nil {
		return nil, err
	}
	if iPrice, err = lookup(cols.MinPrice); err != nil {
		return nil, err
	}
	if iArrivals, err = lookup(cols.Arrivals); err != nil {
		return nil, err
	}

	out := make([]model.Observation, 0, len(rows))
	for n, row := range rows {
		line := n + 2 // 1-based, after the header
		if isBlank(row) {
			continue
		}
		cell := func(i int) string {
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, err := parseDate(cell(iDate), opts.DateLayout)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		price, err := parseNumber(cell(iPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", line, cols.MinPrice, err)
		}
		arrivals, err := parseNumber(cell(iArrivals))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", line, cols.Arrivals, err)
		}
		market, variety := cell(iMarket), cell(iVariety)
		if market == "" || variety == "" {
			return nil, fmt.Errorf("row %d: market and variety are required", line)
		}

		out = append(out, model.Observation{
			Market:         market,
			Variety:        variety,
			Date:           date,
			MinPrice:       price,
			ArrivalsTonnes: arrivals,
		})
	}
	return out, nil
}

func resolveColumns(opts LoadOptions) Columns {
	if opts.Columns == (Columns{}) {
		return DefaultColumns()
	}
	return opts.Columns
}

// columnIndex finds name in header, ignoring case, padding and a BOM.
func columnIndex(header []string, name string) (int, bool) {
	want := normalizeHeader(name)
	for i, h := range header {
		if normalizeHeader(h) == want {
			return i, true
		}
	}
	return 0, false
}

func parseDate(s, layout string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := fallbackDateLayouts
	if layout != "" {
		layouts = append([]string{layout}, fallbackDateLayouts...)
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return model.TruncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errors.New("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
