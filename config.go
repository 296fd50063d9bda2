package till

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the till profile: where daily files live and which
// denominations the drawer tracks. Loaded from a YAML file; a missing
// file means the defaults.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Notes    []int  `yaml:"notes"`
	CoinUnit int    `yaml:"coin_unit"`
}

// DefaultConfig returns the stock profile: ./data and the HUF
// denomination set.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "data",
		Notes:    DefaultDenoms().Notes(),
		CoinUnit: DefaultDenoms().CoinUnit(),
	}
}

// LoadConfig reads a profile from path. A missing file yields the
// defaults; unset fields fall back to their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var in Config
	if err := yaml.Unmarshal(buf, &in); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if in.DataDir != "" {
		cfg.DataDir = in.DataDir
	}
	if len(in.Notes) > 0 {
		cfg.Notes = in.Notes
	}
	if in.CoinUnit != 0 {
		cfg.CoinUnit = in.CoinUnit
	}
	if _, err := NewDenomSet(cfg.Notes, cfg.CoinUnit); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// DenomSet builds the configured denomination set.
func (c *Config) DenomSet() (*DenomSet, error) {
	return NewDenomSet(c.Notes, c.CoinUnit)
}
