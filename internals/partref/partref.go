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

// Package partref decodes the partition references found in the catalog of
// installed operating systems.
//
// Two addressing schemes are in use. Installs on the SD card refer to
// partitions by device node (/dev/mmcblk0p7) and the trailing decimal digits
// are the partition number. Installs on USB media refer to partitions by MBR
// partition UUID (PARTUUID=000dbedf-05) and the trailing two hex digits are
// the partition number.
package partref

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme identifies how a partition reference encodes its partition number.
type Scheme int

const (
	// Invalid means the reference matches neither scheme.
	Invalid Scheme = iota
	// Numeric is a device node with a decimal partition suffix.
	Numeric
	// HexSuffix is a PARTUUID whose last two hex digits are the partition.
	HexSuffix
)

func (s Scheme) String() string {
	switch s {
	case Numeric:
		return "numeric"
	case HexSuffix:
		return "hex-suffix"
	}
	return "invalid"
}

const uuidPrefix = "PARTUUID"

// Ref is the decoded form of a partition reference.
type Ref struct {
	Scheme Scheme
	Number int
}

// Valid reports whether the reference was decoded successfully.
func (r Ref) Valid() bool {
	return r.Scheme != Invalid
}

// Decode parses a partition reference. The UUID scheme is tried first, then
// the numeric suffix scheme.
func Decode(ref string) Ref {
	if strings.HasPrefix(ref, uuidPrefix) {
		return decodeHexSuffix(ref)
	}
	return decodeNumeric(ref)
}

func decodeHexSuffix(ref string) Ref {
	if len(ref) < 2 {
		return Ref{}
	}
	suffix := ref[len(ref)-2:]
	for i := 0; i < len(suffix); i++ {
		if !isLowerHex(suffix[i]) {
			return Ref{}
		}
	}
	n, err := strconv.ParseUint(suffix, 16, 8)
	if err != nil {
		return Ref{}
	}
	return Ref{Scheme: HexSuffix, Number: int(n)}
}

func decodeNumeric(ref string) Ref {
	digits := TrailingNumber(ref)
	if digits == "" {
		return Ref{}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Ref{}
	}
	return Ref{Scheme: Numeric, Number: n}
}

// TrailingNumber returns the decimal digits at the end of ref, or "" if ref
// does not end in a digit.
func TrailingNumber(ref string) string {
	i := len(ref)
	for i > 0 && isDigit(ref[i-1]) {
		i--
	}
	return ref[i:]
}

// Device returns the device node of partition n on the given drive. Drives
// whose name ends in a digit (mmcblk0, nvme0n1, loop0) separate the
// partition number with a "p".
func Device(drive string, n int) string {
	if drive != "" && isDigit(drive[len(drive)-1]) {
		return fmt.Sprintf("%sp%d", drive, n)
	}
	return fmt.Sprintf("%s%d", drive, n)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLowerHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f')
}
