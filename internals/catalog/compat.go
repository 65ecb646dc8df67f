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

package catalog

import (
	"bytes"
	"os"
	"strings"
)

// DefaultModelPath is where the device tree exposes the hardware model string.
const DefaultModelPath = "/proc/device-tree/model"

// ReadModel returns the hardware model, or "" if it cannot be read.
func ReadModel(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(bytes.TrimRight(data, "\x00\n"))
}

// ModelPredicate returns the default compatibility predicate for the given
// hardware model. Entries marked "bootable": false are rejected. Entries
// listing "supported_models" are accepted only if one of those strings is
// part of the model (ignoring case). Everything else is accepted.
func ModelPredicate(model string) CanBootFunc {
	lmodel := strings.ToLower(model)
	return func(name string, fields map[string]any) bool {
		if b, ok := fields["bootable"].(bool); ok && !b {
			return false
		}
		supported, ok := fields["supported_models"].([]any)
		if !ok {
			return true
		}
		for _, m := range supported {
			s, ok := m.(string)
			if ok && s != "" && strings.Contains(lmodel, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}
