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

package bootsel

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/osutil"
)

// DefaultRebootParams lists the firmware module parameters that select the
// partition booted after the next restart, in order of preference.
var DefaultRebootParams = []string{
	"/sys/module/bcm2708/parameters/reboot_part",
	"/sys/module/bcm2709/parameters/reboot_part",
	"/sys/module/bcm2835_wdt/parameters/reboot_part",
}

var restart = func() error {
	unix.Sync()
	return unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART)
}

// SysfsRebooter tells the firmware which partition to boot next through a
// kernel module parameter and then restarts the system.
type SysfsRebooter struct {
	Params []string
	// NoRestart only records the partition.
	NoRestart bool
}

func (r *SysfsRebooter) Reboot(partition int) error {
	params := r.Params
	if len(params) == 0 {
		params = DefaultRebootParams
	}
	var param string
	for _, p := range params {
		if osutil.CanStat(p) {
			param = p
			break
		}
	}
	if param == "" {
		return errors.New("cannot find reboot partition parameter")
	}
	if err := os.WriteFile(param, []byte(strconv.Itoa(partition)+"\n"), 0644); err != nil {
		return fmt.Errorf("cannot set reboot partition: %w", err)
	}
	logger.Debugf("Set %s to %d", param, partition)
	if r.NoRestart {
		return nil
	}
	return restart()
}
