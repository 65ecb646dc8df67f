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

// Package catalog loads the list of operating systems installed by the
// recovery environment (installed_os.json) and filters out the entries the
// running hardware cannot boot.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/canonical/bootsel/internals/logger"
)

// CanBootFunc decides whether the OS with the given name and raw catalog
// fields can be booted on this hardware.
type CanBootFunc func(name string, fields map[string]any) bool

// Entry is one installed operating system.
type Entry struct {
	Name        string
	Description string
	// Icon is the path of a readable icon, or "" if there is none.
	Icon     string
	IconSize Size
	// Partitions lists partition references; the first one is booted.
	Partitions []string
	// Fields holds the raw catalog record.
	Fields map[string]any
}

// BootPartition returns the reference of the partition to boot.
func (e *Entry) BootPartition() string {
	return e.Partitions[0]
}

// Catalog is the set of bootable entries, in catalog order.
type Catalog struct {
	Entries []*Entry
	// IconSize is the size every icon slot is shown at: the largest icon
	// seen, but never below Options.MinIconSize.
	IconSize Size
}

// Options tunes Load.
type Options struct {
	// CanBoot filters entries. A nil CanBoot accepts every entry.
	CanBoot CanBootFunc
	// MinIconSize is the starting icon slot size.
	MinIconSize Size
}

// Load reads the catalog at path. A missing or corrupt catalog is not an
// error: it yields an empty catalog.
func Load(path string, opts *Options) *Catalog {
	if opts == nil {
		opts = &Options{}
	}
	cat := &Catalog{IconSize: opts.MinIconSize}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Noticef("Cannot read catalog: %v", err)
		return cat
	}
	records, err := parse(data)
	if err != nil {
		logger.Noticef("Cannot parse catalog %s: %v", path, err)
		return cat
	}

	for i, fields := range records {
		e, err := newEntry(fields)
		if err != nil {
			logger.Debugf("Skipping catalog record %d: %v", i, err)
			continue
		}
		if opts.CanBoot != nil && !opts.CanBoot(e.Name, fields) {
			logger.Debugf("Skipping %q: not bootable on this hardware", e.Name)
			continue
		}
		if e.Icon != "" {
			cat.IconSize = cat.IconSize.Max(e.IconSize)
		}
		cat.Entries = append(cat.Entries, e)
	}
	return cat
}

func parse(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func newEntry(fields map[string]any) (*Entry, error) {
	e := &Entry{
		Name:        stringField(fields, "name"),
		Description: stringField(fields, "description"),
		Fields:      fields,
	}
	if e.Name == "" {
		e.Name = stringField(fields, "os_name")
	}
	if parts, ok := fields["partitions"].([]any); ok {
		for _, p := range parts {
			if s, ok := p.(string); ok {
				e.Partitions = append(e.Partitions, s)
			}
		}
	}
	if len(e.Partitions) == 0 {
		return nil, fmt.Errorf("%q has no partitions", e.Name)
	}
	if icon := stringField(fields, "icon"); icon != "" {
		size, err := probeIcon(icon)
		if err != nil {
			logger.Debugf("Ignoring icon of %q: %v", e.Name, err)
		} else {
			e.Icon = icon
			e.IconSize = size
		}
	}
	return e, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
