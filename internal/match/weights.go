package match

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/pitchside-labs/sponsormatch/internal/config"
)

// Weights holds the scoring component weights. The formula is data, not
// code: the defaults below are a tuning surface and can be replaced per
// run from a YAML profile.
type Weights struct {
	Region       float64 `yaml:"region"`
	Query        float64 `yaml:"query"`
	Values       float64 `yaml:"values"`
	Valuation    float64 `yaml:"valuation"`
	Demographics float64 `yaml:"demographics"`
	Reach        float64 `yaml:"reach"`
}

// DefaultWeights returns the baseline scoring weights. They sum to 1.
func DefaultWeights() Weights {
	return Weights{
		Region:       0.3,
		Query:        0.1,
		Values:       0.05,
		Valuation:    0.3,
		Demographics: 0.2,
		Reach:        0.05,
	}
}

// FromConfig builds Weights from the match section of the app config.
func FromConfig(cfg config.MatchConfig) Weights {
	return Weights{
		Region:       cfg.RegionWeight,
		Query:        cfg.QueryWeight,
		Values:       cfg.ValuesWeight,
		Valuation:    cfg.ValuationWeight,
		Demographics: cfg.DemographicsWeight,
		Reach:        cfg.ReachWeight,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.Region + w.Query + w.Values + w.Valuation + w.Demographics + w.Reach
}

// Validate checks that the weights are non-negative and sum to roughly 1.
func (w Weights) Validate() error {
	var errs []string
	named := map[string]float64{
		"region":       w.Region,
		"query":        w.Query,
		"values":       w.Values,
		"valuation":    w.Valuation,
		"demographics": w.Demographics,
		"reach":        w.Reach,
	}
	for name, v := range named {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := w.Sum()
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	} else if math.Abs(sum-1) > 0.05 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.3f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("match: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadProfile reads a weights profile from a YAML file. Fields omitted
// in the file keep their default values.
func LoadProfile(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrapf(err, "match: read weights profile %s", path)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, eris.Wrapf(err, "match: parse weights profile %s", path)
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}
