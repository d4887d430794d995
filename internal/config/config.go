/*
 * config.go, part of ffbench.
 *
 * Copyright 2024 The ffbench authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config holds the settings of the ffbench command. Settings come,
//in increasing priority, from the defaults, a YAML file, FFBENCH_ environment
//variables and the command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

//EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "FFBENCH"

//Config is the full ffbench configuration.
type Config struct {
	Python   string       `yaml:"python" envconfig:"PYTHON" validate:"required"`
	LogLevel string       `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Outliers *float64     `yaml:"outliers" envconfig:"OUTLIERS" validate:"omitempty,gte=0"` //multiplier for the outlier exclusion in box plots, nil to disable it
	Run      RunConfig    `yaml:"run" envconfig:"RUN"`
	Plot     PlotConfig   `yaml:"plot" envconfig:"PLOT"`
	Filter   FilterConfig `yaml:"filter" envconfig:"FILTER"`
}

//RunConfig are the settings for benchmark runs.
type RunConfig struct {
	ForceField      string `yaml:"force_field" envconfig:"FORCE_FIELD" validate:"required"`
	Dataset         string `yaml:"dataset" envconfig:"DATASET"`
	Database        string `yaml:"database" envconfig:"DATABASE" validate:"required"`
	OutDir          string `yaml:"out_dir" envconfig:"OUT_DIR" validate:"required"`
	Procs           int    `yaml:"procs" envconfig:"PROCS" validate:"min=1"`
	InvalidateCache bool   `yaml:"invalidate_cache" envconfig:"INVALIDATE_CACHE"`
}

//PlotConfig are the settings for plotting previous runs.
type PlotConfig struct {
	Root      string   `yaml:"root" envconfig:"ROOT" validate:"required"`
	InputDirs []string `yaml:"input_dirs" envconfig:"INPUT_DIRS" validate:"min=1,dive,required"`
	OutDir    string   `yaml:"out_dir" envconfig:"OUT_DIR" validate:"required"`
	Records   string   `yaml:"records" envconfig:"RECORDS"`
	Negate    bool     `yaml:"negate" envconfig:"NEGATE"`
	DPI       int      `yaml:"dpi" envconfig:"DPI" validate:"min=1"`
}

//FilterConfig are the settings for dataset filtering.
type FilterConfig struct {
	Status       string `yaml:"status" envconfig:"STATUS"`
	ChargeMethod string `yaml:"charge_method" envconfig:"CHARGE_METHOD" validate:"required"`
	Pretty       bool   `yaml:"pretty" envconfig:"PRETTY"`
}

//Default returns the default configuration.
func Default() *Config {
	return &Config{
		Python:   "python",
		LogLevel: "info",
		Run: RunConfig{
			ForceField: "force-field.offxml",
			Dataset:    "datasets/cache/industry.json",
			Database:   "tmp.sqlite",
			OutDir:     ".",
			Procs:      16,
		},
		Plot: PlotConfig{
			Root:      "output",
			InputDirs: []string{"industry"},
			OutDir:    "/tmp",
			DPI:       300,
		},
		Filter: FilterConfig{
			Status:       "complete",
			ChargeMethod: "am1bccelf10",
		},
	}
}

var validate = validator.New()

//Load returns the configuration from the defaults, the YAML file path, if not
//empty, and the environment. Unknown fields in the file are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config.Load: parsing %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

//SlogLevel returns the slog level for the LogLevel setting.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}
