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

package osutil_test

import (
	"errors"
	"os"
	"path"

	. "gopkg.in/check.v1"

	"golang.org/x/sys/unix"

	"github.com/canonical/bootsel/internals/osutil"
)

type mountSuite struct{}

var _ = Suite(&mountSuite{})

func (s *mountSuite) TestMount(c *C) {
	devNode := "/dev/mmcblk0p5"
	mountpoint := path.Join(c.MkDir(), "test", "settings")
	fsType := "ext4"

	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		c.Assert(source, Equals, devNode)
		c.Assert(target, Equals, mountpoint)
		c.Assert(fstype, Equals, fsType)
		c.Assert(flags, Equals, uintptr(0))
		c.Assert(data, Equals, "")
		return nil
	})()

	err := osutil.Mount(devNode, mountpoint, fsType, false)
	c.Assert(err, IsNil)
	c.Assert(osutil.IsDir(mountpoint), Equals, true)

	info, err := os.Stat(mountpoint)
	c.Assert(err, IsNil)
	c.Assert(info.Mode()&os.ModePerm, Equals, os.FileMode(0755))
}

func (s *mountSuite) TestMountReadOnly(c *C) {
	mountpoint := path.Join(c.MkDir(), "ro", "settings")

	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		c.Assert(flags, Equals, uintptr(unix.MS_RDONLY))
		return nil
	})()

	err := osutil.Mount("/dev/mmcblk0p5", mountpoint, "ext4", true)
	c.Assert(err, IsNil)
}

func (s *mountSuite) TestMountFailsOnSyscall(c *C) {
	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		return errors.New("cannot foo")
	})()
	err := osutil.Mount("/dev/whatever", c.MkDir(), "ext4", false)
	c.Assert(err, ErrorMatches, `cannot mount "/dev/whatever": cannot foo`)
}

func (s *mountSuite) TestMountFailsOnMkDir(c *C) {
	root := c.MkDir()
	mountpoint := path.Join(root, "test", "mountpoint")

	err := os.Chmod(root, 0400)
	c.Assert(err, IsNil)
	defer os.Chmod(root, 0755)

	if os.Geteuid() == 0 {
		c.Skip("root ignores directory permissions")
	}

	err = osutil.Mount("/dev/whatever", mountpoint, "ext4", false)
	c.Assert(err, ErrorMatches, `cannot create directory .*: .*permission denied`)
}

func (s *mountSuite) TestRemountReadWrite(c *C) {
	callsToSync := 0
	defer osutil.FakeSyscallSync(func() { callsToSync++ })()
	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		c.Assert(source, Equals, "")
		c.Assert(target, Equals, "/settings")
		c.Assert(fstype, Equals, "")
		c.Assert(flags, Equals, uintptr(unix.MS_REMOUNT))
		return nil
	})()

	err := osutil.Remount("/settings", false)
	c.Assert(err, IsNil)
	c.Assert(callsToSync, Equals, 0)
}

func (s *mountSuite) TestRemountReadOnly(c *C) {
	callsToSync := 0
	defer osutil.FakeSyscallSync(func() { callsToSync++ })()
	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		c.Assert(flags, Equals, uintptr(unix.MS_REMOUNT|unix.MS_RDONLY))
		return nil
	})()

	err := osutil.Remount("/settings", true)
	c.Assert(err, IsNil)
	c.Assert(callsToSync, Equals, 1)
}

func (s *mountSuite) TestRemountFails(c *C) {
	defer osutil.FakeSyscallMount(func(source, target, fstype string, flags uintptr, data string) error {
		return unix.EINVAL
	})()

	err := osutil.Remount("/settings", false)
	c.Assert(err, ErrorMatches, `cannot remount "/settings" rw: invalid argument`)
}
