package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// App captures engine-level configuration.
type App struct {
	// CodigoInstitucion is the fixed institution code stamped on every
	// consent record of this deployment.
	CodigoInstitucion string `yaml:"codigo_institucion"`
	// Seed drives deterministic data generation for the bootstrap stores.
	Seed int64 `yaml:"seed"`
	// MetricsAddr is where the Prometheus endpoint listens.
	MetricsAddr string `yaml:"metrics_addr"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// FromEnv builds an App config from environment variables so main stays lean.
func FromEnv() App {
	cfg := App{
		CodigoInstitucion: "001",
		Seed:              123,
		MetricsAddr:       ":9090",
	}
	if v := os.Getenv("RDC30_CODIGO_INSTITUCION"); v != "" {
		cfg.CodigoInstitucion = v
	}
	if v := os.Getenv("RDC30_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("RDC30_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	cfg.Debug = os.Getenv("RDC30_DEBUG") == "true"
	return cfg
}

// LoadFile overlays cfg with values from a YAML file. Environment references
// in the file are expanded before parsing.
func LoadFile(path string, cfg *App) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
