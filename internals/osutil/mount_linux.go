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
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var (
	syscallSync  = unix.Sync
	syscallMount = unix.Mount
)

// Mount attaches a filesystem accessible via the device node specified by source
// to the specified baseDir. If not existing, baseDir will be created before
// mounting the filesystem.
func Mount(source, baseDir, fstype string, readOnly bool) error {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %q: %w", baseDir, err)
	}

	flags := uintptr(0)
	if readOnly {
		flags |= unix.MS_RDONLY
	}
	if err := syscallMount(source, baseDir, fstype, flags, ""); err != nil {
		return fmt.Errorf("cannot mount %q: %w", source, err)
	}
	return nil
}

// Remount changes the access mode of the filesystem already mounted on
// baseDir. Pending writes are flushed before switching to read-only.
func Remount(baseDir string, readOnly bool) error {
	flags := uintptr(unix.MS_REMOUNT)
	mode := "rw"
	if readOnly {
		syscallSync()
		flags |= unix.MS_RDONLY
		mode = "ro"
	}
	if err := syscallMount("", baseDir, "", flags, ""); err != nil {
		return fmt.Errorf("cannot remount %q %s: %w", baseDir, mode, err)
	}
	return nil
}
