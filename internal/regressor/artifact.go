package regressor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"commodity-forecast/internal/model"

	"gopkg.in/yaml.v3"
)

// Artifact is the on-disk description of a trained model (YAML).
//
// Example:
//
//	kind: linear
//	name: sugar-linear-v3
//	intercept: 1.2
//	weights:
//	  Lag_1: 0.74
//	  Rolling_Mean_7: 0.2
//	categories:
//	  Market:
//	    levels: [Mumbai, Pune]
//	    effects: [2.5, -1.1]
type Artifact struct {
	Kind string `yaml:"kind"` // "linear" or "remote"
	Name string `yaml:"name"`

	// Features, when present, must equal the canonical feature order.
	Features   []string                    `yaml:"features"`
	Categories map[string]CategoryArtifact `yaml:"categories"`

	// linear
	Intercept float64            `yaml:"intercept"`
	Weights   map[string]float64 `yaml:"weights"`

	// remote
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CategoryArtifact lists the training-time levels of a categorical column.
// Effects is only used by linear models and is aligned with Levels.
type CategoryArtifact struct {
	Levels  []string  `yaml:"levels"`
	Effects []float64 `yaml:"effects"`
}

// Load reads an artifact file and builds the regressor it describes.
func Load(path string) (Regressor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	r, err := FromArtifact(a)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return r, nil
}

// FromArtifact validates a and builds the matching regressor.
func FromArtifact(a Artifact) (Regressor, error) {
	if err := a.checkSchema(); err != nil {
		return nil, err
	}
	levels := make(map[string][]string, len(a.Categories))
	for col, c := range a.Categories {
		levels[col] = c.Levels
	}
	enc, err := NewEncoder(levels)
	if err != nil {
		return nil, err
	}

	switch a.Kind {
	case "linear":
		return newLinear(a, enc)
	case "remote":
		return newRemote(a, enc)
	case "":
		return nil, errors.New("kind is required")
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}

func (a Artifact) checkSchema() error {
	if len(a.Features) == 0 {
		return nil
	}
	if len(a.Features) != len(model.FeatureOrder) {
		return fmt.Errorf("artifact lists %d features, expected %d", len(a.Features), len(model.FeatureOrder))
	}
	for i, name := range a.Features {
		if name != model.FeatureOrder[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, model.FeatureOrder[i])
		}
	}
	return nil
}
