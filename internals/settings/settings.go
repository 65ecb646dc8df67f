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

// Package settings persists the recovery environment settings (noobs.conf).
//
// The settings partition is mounted read-only so that an unclean shutdown
// cannot corrupt it. Every write remounts it read-write, flushes the whole
// file and remounts it read-only again.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/osutil"
)

// section matches the group QSettings uses for ungrouped keys, so files
// written by earlier recovery releases keep working.
const section = "General"

const (
	KeyDefaultPartition = "default_partition_to_boot"
	KeyLanguage         = "language"
	KeyKeyboardLayout   = "keyboard_layout"
	KeyDisplayMode      = "display_mode"
)

// NoDefaultPartition is stored as the default partition when the user must
// be asked which OS to boot every time.
const NoDefaultPartition = 800

// Store is a key/value settings file on a volume that is normally mounted
// read-only.
type Store struct {
	mu   sync.Mutex
	path string
	vol  Volume
	file *ini.File
}

// Open loads the settings file at path. A missing file is an empty store; a
// file that cannot be parsed is logged and treated as empty.
func Open(path string, vol Volume) (*Store, error) {
	s := &Store{path: path, vol: vol}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read settings: %w", err)
	}
	s.file = ini.Empty()
	if len(data) > 0 {
		f, err := ini.Load(data)
		if err != nil {
			logger.Noticef("Cannot parse settings %s, starting afresh: %v", path, err)
		} else {
			s.file = f
		}
	}
	return s, nil
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored for key, or def if there is none.
func (s *Store) Get(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.file.Section(section)
	if !sec.HasKey(key) {
		return def
	}
	return sec.Key(key).String()
}

// GetInt returns the integer stored for key, or def if there is none or it
// is not a number.
func (s *Store) GetInt(key string, def int) int {
	v := s.Get(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Debugf("Ignoring non-numeric setting %s=%q", key, v)
		return def
	}
	return n
}

// Set stores value under key and flushes the file to disk before
// returning. The volume is always left read-only afterwards.
func (s *Store) Set(key, value string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vol.Remount(false); err != nil {
		return fmt.Errorf("cannot write setting %q: %w", key, err)
	}
	defer func() {
		if rerr := s.vol.Remount(true); rerr != nil && err == nil {
			err = fmt.Errorf("cannot restore read-only settings: %w", rerr)
		}
	}()

	sec := s.file.Section(section)
	had := sec.HasKey(key)
	old := sec.Key(key).String()
	sec.Key(key).SetValue(value)

	if err := s.flush(); err != nil {
		if had {
			sec.Key(key).SetValue(old)
		} else {
			sec.DeleteKey(key)
		}
		return fmt.Errorf("cannot write setting %q: %w", key, err)
	}
	logger.Debugf("Saved setting %s=%q", key, value)
	return nil
}

// SetInt stores an integer value under key.
func (s *Store) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

func (s *Store) flush() error {
	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		return err
	}
	return osutil.AtomicWriteFile(s.path, buf.Bytes(), 0644)
}

// DefaultPartition returns the partition booted without asking, or def.
func (s *Store) DefaultPartition(def int) int {
	return s.GetInt(KeyDefaultPartition, def)
}

// SetDefaultPartition saves the partition to boot without asking. Use
// NoDefaultPartition to ask every time.
func (s *Store) SetDefaultPartition(n int) error {
	return s.SetInt(KeyDefaultPartition, n)
}

// Language returns the saved UI language code, or def.
func (s *Store) Language(def string) string {
	return s.Get(KeyLanguage, def)
}

// SetLanguage saves the UI language code.
func (s *Store) SetLanguage(code string) error {
	return s.Set(KeyLanguage, code)
}

// KeyboardLayout returns the saved keyboard layout, or def.
func (s *Store) KeyboardLayout(def string) string {
	return s.Get(KeyKeyboardLayout, def)
}

// SetKeyboardLayout saves the keyboard layout.
func (s *Store) SetKeyboardLayout(layout string) error {
	return s.Set(KeyKeyboardLayout, layout)
}

// DisplayMode returns the saved display mode.
func (s *Store) DisplayMode() DisplayMode {
	return DisplayMode(s.GetInt(KeyDisplayMode, int(DisplayAuto)))
}
