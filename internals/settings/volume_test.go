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

package settings_test

import (
	"errors"
	"fmt"

	. "gopkg.in/check.v1"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/partinfo"
	"github.com/canonical/bootsel/internals/settings"
)

type volumeSuite struct {
	logbuf        fmt.Stringer
	restoreLogger func()
}

var _ = Suite(&volumeSuite{})

func (s *volumeSuite) SetUpTest(c *C) {
	s.logbuf, s.restoreLogger = logger.MockLogger("")
}

func (s *volumeSuite) TearDownTest(c *C) {
	s.restoreLogger()
}

var settingsMount = &settings.PartitionMount{
	Drive:     "/dev/mmcblk0",
	Partition: 5,
	Dir:       "/settings",
	FSType:    "ext4",
}

func (s *volumeSuite) TestMountVolume(c *C) {
	var calls []string
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		calls = append(calls, fmt.Sprintf("%s:%v", baseDir, readOnly))
		return nil
	})()

	vol := settings.MountVolume{Dir: "/settings"}
	c.Assert(vol.Remount(false), IsNil)
	c.Assert(vol.Remount(true), IsNil)
	c.Check(calls, DeepEquals, []string{"/settings:false", "/settings:true"})
}

func (s *volumeSuite) TestPrepareAlreadyMounted(c *C) {
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		c.Check(baseDir, Equals, "/settings")
		c.Check(readOnly, Equals, true)
		return nil
	})()
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		c.Fatalf("unexpected mount")
		return nil
	})()

	c.Assert(settings.Prepare(settingsMount), IsNil)
}

func (s *volumeSuite) TestPrepareMounts(c *C) {
	mounted := false
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		return errors.New("not mounted")
	})()
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		c.Check(source, Equals, "/dev/mmcblk0p5")
		c.Check(baseDir, Equals, "/settings")
		c.Check(fstype, Equals, "ext4")
		c.Check(readOnly, Equals, true)
		mounted = true
		return nil
	})()

	c.Assert(settings.Prepare(settingsMount), IsNil)
	c.Check(mounted, Equals, true)
}

func (s *volumeSuite) TestPrepareFails(c *C) {
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		return errors.New("not mounted")
	})()
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		return errors.New("no such device")
	})()

	err := settings.Prepare(settingsMount)
	c.Assert(errors.Is(err, settings.ErrSettingsUnavailable), Equals, true)
	c.Check(err, ErrorMatches, "cannot mount settings partition: no such device")
}

func (s *volumeSuite) TestPrepareRecoveryIsSoft(c *C) {
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		c.Check(source, Equals, "/dev/sda1")
		c.Check(fstype, Equals, "vfat")
		return errors.New("no such device")
	})()

	settings.PrepareRecovery(&settings.PartitionMount{Drive: "/dev/sda", Partition: 1, Dir: "/mnt", FSType: "vfat"})
	c.Check(s.logbuf.String(), Matches, `(?s).*Cannot mount recovery partition, icons may be missing: no such device.*`)
}

func (s *volumeSuite) TestPrepareProbesFSType(c *C) {
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		return errors.New("not mounted")
	})()
	defer settings.FakeProbePartition(func(device string) (*partinfo.Info, error) {
		c.Check(device, Equals, "/dev/mmcblk0p5")
		return &partinfo.Info{FSType: "ext4", Label: "SETTINGS"}, nil
	})()
	var fstypes []string
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		fstypes = append(fstypes, fstype)
		return nil
	})()

	m := *settingsMount
	m.FSType = settings.AutoFSType
	c.Assert(settings.Prepare(&m), IsNil)
	m.FSType = ""
	c.Assert(settings.Prepare(&m), IsNil)
	c.Check(fstypes, DeepEquals, []string{"ext4", "ext4"})
}

func (s *volumeSuite) TestPrepareProbeFails(c *C) {
	defer settings.FakeRemount(func(baseDir string, readOnly bool) error {
		return errors.New("not mounted")
	})()
	defer settings.FakeProbePartition(func(device string) (*partinfo.Info, error) {
		return nil, partinfo.ErrUnrecognized
	})()
	defer settings.FakeMount(func(source, baseDir, fstype string, readOnly bool) error {
		c.Fatalf("unexpected mount")
		return nil
	})()

	m := *settingsMount
	m.FSType = settings.AutoFSType
	err := settings.Prepare(&m)
	c.Assert(errors.Is(err, settings.ErrSettingsUnavailable), Equals, true)
	c.Check(err, ErrorMatches, "cannot mount settings partition: unrecognized file system")
}
