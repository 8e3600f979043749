package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/units"
	"github.com/dpup/shapetools/internal/logging"
)

// EnvPrefix marks environment variables that override file settings. Nested
// keys are separated by a double underscore, for example
// SHAPETOOLS__ENGINE__MAX_SEGMENTS=500.
const EnvPrefix = "SHAPETOOLS__"

// DefaultFile is read when present and no explicit path is given.
const DefaultFile = "shapetools.yaml"

// Config represents the complete tool configuration
type Config struct {
	Engine  geo.Settings   `yaml:"engine"`
	Batch   BatchConfig    `yaml:"batch"`
	Logging logging.Config `yaml:"logging"`
	Output  OutputConfig   `yaml:"output"`
}

// BatchConfig controls feature processing
type BatchConfig struct {
	// Workers is the number of features generated concurrently.
	Workers int `yaml:"workers"`
	// CacheSize bounds the shape memo cache, 0 disables it.
	CacheSize int `yaml:"cache_size"`
	// MetricsFile, if set, receives counters in the Prometheus text format
	// when a batch finishes.
	MetricsFile string `yaml:"metrics_file"`
}

// OutputConfig holds defaults for the CLI
type OutputConfig struct {
	Format string `yaml:"format"` // geojson, kml or polyline
	Unit   string `yaml:"unit"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: geo.DefaultSettings(),
		Batch: BatchConfig{
			Workers:   4,
			CacheSize: 1024,
		},
		Logging: logging.DefaultConfig(),
		Output: OutputConfig{
			Format: "geojson",
			Unit:   string(units.Kilometers),
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Engine.Validate())
	if c.Batch.Workers < 1 {
		err = multierr.Append(err, errors.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Batch.CacheSize < 0 {
		err = multierr.Append(err, errors.Errorf("batch.cache_size must not be negative, got %d", c.Batch.CacheSize))
	}
	switch c.Output.Format {
	case "geojson", "kml", "polyline":
	default:
		err = multierr.Append(err, errors.Errorf("output.format %q is not one of geojson, kml, polyline", c.Output.Format))
	}
	if _, uerr := units.ParseDistance(c.Output.Unit); uerr != nil {
		err = multierr.Append(err, errors.Wrap(uerr, "output.unit"))
	}
	return err
}

// Load layers defaults, the YAML file at path and SHAPETOOLS__ environment
// variables, in that order. An empty path reads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// envKey maps SHAPETOOLS__ENGINE__MAX_SEGMENTS to engine.max_segments.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func defaults() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"engine.semi_major_axis":    d.Engine.SemiMajorAxis,
		"engine.flattening":         d.Engine.Flattening,
		"engine.max_segment_length": d.Engine.MaxSegmentLength,
		"engine.max_segments":       d.Engine.MaxSegments,
		"batch.workers":             d.Batch.Workers,
		"batch.cache_size":          d.Batch.CacheSize,
		"batch.metrics_file":        d.Batch.MetricsFile,
		"logging.level":             d.Logging.Level,
		"logging.format":            d.Logging.Format,
		"output.format":             d.Output.Format,
		"output.unit":               d.Output.Unit,
	}
}
