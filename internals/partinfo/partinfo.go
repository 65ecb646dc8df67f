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

// Package partinfo recognises the file system on a partition from its
// superblock.
package partinfo

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Info describes the file system found on a partition.
type Info struct {
	// FSType is the type to pass to mount(2).
	FSType string
	// Label is the volume label, or "" if there is none.
	Label string
}

var probes = []func(r io.ReaderAt) (*Info, error){
	probeVFAT,
	probeExt4,
}

// ErrUnrecognized is returned for partitions with no supported file
// system.
var ErrUnrecognized = errors.New("unrecognized file system")

// Probe reads the superblock of the partition at path.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot probe partition: %w", err)
	}
	defer f.Close()
	return ProbeReader(f)
}

// ProbeReader is Probe for an already open partition.
func ProbeReader(r io.ReaderAt) (*Info, error) {
	for _, probe := range probes {
		if info, err := probe(r); err == nil {
			return info, nil
		}
	}
	return nil, ErrUnrecognized
}
