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

package osutil

import (
	"os"
	"os/exec"
)

// CanStat returns true if stat succeeds on the given path.
// It may return false on permission issues.
func CanStat(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var lookPath = exec.LookPath

// IsExecInPath returns true if name is an executable in $PATH.
func IsExecInPath(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
