// Copyright (c) 2024 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the bootsel configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when $BOOTSEL_CONFIG is not set.
const DefaultPath = "/etc/bootsel.yaml"

type Config struct {
	// Drive is the block device holding every partition.
	Drive string `yaml:"drive" default:"/dev/mmcblk0" validate:"required,startswith=/dev/"`

	Settings struct {
		Dir       string `yaml:"dir" default:"/settings" validate:"required"`
		File      string `yaml:"file" default:"noobs.conf" validate:"required"`
		Partition int    `yaml:"partition" default:"5" validate:"gt=0"`
		// FSType may be "auto" to read it from the superblock.
		FSType string `yaml:"fstype" default:"ext4" validate:"required"`
	} `yaml:"settings"`

	Recovery struct {
		Dir       string `yaml:"dir" default:"/mnt" validate:"required"`
		Partition int    `yaml:"partition" default:"1" validate:"gt=0"`
		FSType    string `yaml:"fstype" default:"vfat" validate:"required"`
	} `yaml:"recovery"`

	Catalog struct {
		Path        string `yaml:"path" default:"/settings/installed_os.json" validate:"required"`
		MinIconSize int    `yaml:"min-icon-size" default:"40" validate:"gte=0"`
		// ModelPath names the file holding the board model.
		ModelPath string `yaml:"model-path" default:"/proc/device-tree/model"`
	} `yaml:"catalog"`

	Boot struct {
		Countdown        int      `yaml:"countdown" default:"10" validate:"gte=0"`
		DefaultPartition int      `yaml:"default-partition" default:"800" validate:"gt=0"`
		RebootParams     []string `yaml:"reboot-params" validate:"dive,required"`
	} `yaml:"boot"`

	Language struct {
		Default         string `yaml:"default" default:"gb" validate:"required"`
		TranslationsDir string `yaml:"translations-dir" default:"/usr/share/bootsel/translations" validate:"required"`
	} `yaml:"language"`

	Keyboard struct {
		Default string `yaml:"default" default:"gb" validate:"required"`
		Dir     string `yaml:"dir" default:"/keymaps" validate:"required"`
		Ext     string `yaml:"ext" default:".map" validate:"required,startswith=."`
		Command string `yaml:"command" default:"loadkeys" validate:"required"`
	} `yaml:"keyboard"`

	Metrics struct {
		// Textfile is written in the node exporter textfile format when
		// set.
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// SettingsPath returns the path of the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Settings.Dir, c.Settings.File)
}

// Path returns the configuration file to use.
func Path() string {
	if p := os.Getenv("BOOTSEL_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// Only malformed default tags can fail.
		panic(err)
	}
	return &c
}

// Load reads the configuration at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("cannot parse configuration %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
	}
	return c, nil
}

// Validate checks the values against their constraints.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
