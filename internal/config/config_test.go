package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(kv map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c, err := LoadUnchecked("")
	if err != nil {
		t.Fatalf("LoadUnchecked: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if c.Server.Port != 8080 || c.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected server defaults %+v", c.Server)
	}
	if c.Forecast.MaxHorizon != 365 || !c.Metrics.Enabled || c.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected defaults %+v %+v", c.Forecast, c.Metrics)
	}
	if c.Dataset.Columns.Date != "Arrival Date" {
		t.Fatalf("unexpected column default %q", c.Dataset.Columns.Date)
	}
	if len(c.CORS.AllowedOrigins) != 1 || c.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors default %v", c.CORS.AllowedOrigins)
	}
	if c.Production() {
		t.Fatalf("default environment should not be production")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	doc := `environment: production
server:
  port: 9090
  read_timeout: 5s
dataset:
  path: /data/prices.xlsx
  format: xlsx
  sheet: Prices
metrics:
  enabled: false
forecast:
  max_horizon: 30
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Production() || c.Addr() != ":9090" || c.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Server.WriteTimeout != 60*time.Second {
		t.Fatalf("unset field lost its default: %v", c.Server.WriteTimeout)
	}
	if c.Metrics.Enabled {
		t.Fatalf("metrics.enabled=false not honoured")
	}
	opts := c.Dataset.LoadOptions()
	if opts.Format != "xlsx" || opts.Sheet != "Prices" || opts.Columns.Market != "Market" {
		t.Fatalf("unexpected load options %+v", opts)
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	err = c.ApplyEnv(env(map[string]string{
		"API_PORT":     "7000",
		"API_ENV":      "production",
		"DATASET_PATH": "/tmp/d.csv",
		"MODEL_PATH":   "/tmp/m.yaml",
		"LOG_LEVEL":    "DEBUG",
		"LOG_FORMAT":   "console",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if c.Server.Port != 7000 || c.Environment != "production" || c.Dataset.Path != "/tmp/d.csv" || c.Model.Path != "/tmp/m.yaml" {
		t.Fatalf("env not applied: %+v", c)
	}
	if c.Log.Level != "debug" || c.Log.Format != "console" {
		t.Fatalf("log env not applied: %+v", c.Log)
	}
	if err := c.ApplyEnv(env(map[string]string{"API_PORT": "eighty"})); err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	c, _ := Default()
	c.Server.Port = 0
	c.Log.Format = "xml"
	c.Forecast.MaxHorizon = -1
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, field := range []string{"Port", "Format", "MaxHorizon"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %s", err, field)
		}
	}
}

func TestValidateRequiresHorizonCap(t *testing.T) {
	c, _ := Default()
	c.Forecast.MaxHorizon = 0
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "MaxHorizon") {
		t.Fatalf("expected max_horizon 0 to be rejected, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
