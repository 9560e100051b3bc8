// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

// Package config loads the optional ~/.ztm/config.yml file.
//
// Every setting has a default, so the file (and every key in it) may be omitted.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/spmpl-pl/ztm/ztm/util/http2"
)

const (
	DefaultBaseURL = "https://api.um.warszawa.pl/"
	DirName        = ".ztm"
	FileName       = "config.yml"
)

// Datasets overrides the identifiers of the API's datasets.
// Empty values keep the built-in identifiers.
type Datasets struct {
	StopRegistry string `yaml:"stop_registry" validate:"omitempty,uuid"`
	NameLookup   string `yaml:"name_lookup" validate:"omitempty,uuid"`
	LinesAtStop  string `yaml:"lines_at_stop" validate:"omitempty,uuid"`
	Schedule     string `yaml:"schedule" validate:"omitempty,uuid"`
	Vehicles     string `yaml:"vehicles"`
}

type Config struct {
	BaseURL        string        `yaml:"base_url" validate:"required,url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gt=0"`
	CacheDir       string        `yaml:"cache_dir" validate:"required"`
	Datasets       Datasets      `yaml:"datasets"`
}

// Error is returned when the config file exists, but can't be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Default returns the configuration used when no config file is present.
func Default(home string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ConnectTimeout: http2.DefaultConnectTimeout,
		ReadTimeout:    http2.DefaultReadTimeout,
		CacheDir:       filepath.Join(home, DirName),
	}
}

// DefaultPath returns the location of the config file inside home.
func DefaultPath(home string) string {
	return filepath.Join(home, DirName, FileName)
}

// Load reads the config file at path over the defaults. A missing file is not an error.
func Load(path, home string) (Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, &Error{path, err}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &Error{path, err}
	}

	cfg.CacheDir = expandHome(cfg.CacheDir, home)
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, &Error{path, err}
	}
	return cfg, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	} else if len(path) > 2 && path[:2] == "~/" {
		return filepath.Join(home, path[2:])
	}
	return path
}
