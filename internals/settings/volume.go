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

package settings

import (
	"errors"
	"fmt"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/osutil"
	"github.com/canonical/bootsel/internals/partinfo"
	"github.com/canonical/bootsel/internals/partref"
)

// Volume switches the filesystem holding the settings between read-only
// and read-write.
type Volume interface {
	Remount(readOnly bool) error
}

// MountVolume is a Volume backed by the mount point at Dir.
type MountVolume struct {
	Dir string
}

func (v MountVolume) Remount(readOnly bool) error {
	return osutilRemount(v.Dir, readOnly)
}

var (
	osutilMount    = osutil.Mount
	osutilRemount  = osutil.Remount
	probePartition = partinfo.Probe
)

// AutoFSType asks for the file system type to be read from the partition's
// superblock before mounting.
const AutoFSType = "auto"

// ErrSettingsUnavailable is returned when the settings partition cannot be
// mounted at all.
var ErrSettingsUnavailable = errors.New("cannot mount settings partition")

// PartitionMount describes a partition of the boot drive and where it is
// mounted. An empty FSType is the same as AutoFSType.
type PartitionMount struct {
	Drive     string
	Partition int
	Dir       string
	FSType    string
}

// Device returns the device node of the partition.
func (m *PartitionMount) Device() string {
	return partref.Device(m.Drive, m.Partition)
}

func (m *PartitionMount) fsType() (string, error) {
	if m.FSType != "" && m.FSType != AutoFSType {
		return m.FSType, nil
	}
	info, err := probePartition(m.Device())
	if err != nil {
		return "", err
	}
	logger.Debugf("Found %s file system on %s (label %q)", info.FSType, m.Device(), info.Label)
	return info.FSType, nil
}

func (m *PartitionMount) mount() error {
	fstype, err := m.fsType()
	if err != nil {
		return err
	}
	return osutilMount(m.Device(), m.Dir, fstype, true)
}

// Prepare makes the settings partition available read-only. If it is
// already mounted it is remounted read-only, otherwise it is mounted.
func Prepare(m *PartitionMount) error {
	if err := osutilRemount(m.Dir, true); err == nil {
		return nil
	} else {
		logger.Debugf("Settings not mounted yet: %v", err)
	}
	if err := m.mount(); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsUnavailable, err)
	}
	return nil
}

// PrepareRecovery mounts the recovery partition read-only. It only holds
// OS icons, so failing to mount it is logged and otherwise ignored.
func PrepareRecovery(m *PartitionMount) {
	if err := m.mount(); err != nil {
		logger.Noticef("Cannot mount recovery partition, icons may be missing: %v", err)
	}
}
