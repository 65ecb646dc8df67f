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

package bootsel_test

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	. "gopkg.in/check.v1"

	"github.com/canonical/bootsel/internals/bootsel"
	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/settings"
)

type metricsSuite struct {
	restoreLogger func()
}

var _ = Suite(&metricsSuite{})

func (s *metricsSuite) SetUpTest(c *C) {
	_, s.restoreLogger = logger.MockLogger("")
}

func (s *metricsSuite) TearDownTest(c *C) {
	s.restoreLogger()
}

func (s *metricsSuite) TestCounters(c *C) {
	reg := prometheus.NewRegistry()
	metrics := bootsel.NewMetrics(reg)

	store, err := settings.Open(filepath.Join(c.MkDir(), "noobs.conf"), &fakeVolume{})
	c.Assert(err, IsNil)
	sess := bootsel.NewSession(entries("garbage", "PARTUUID=000dbedf-05"), &bootsel.Options{
		Settings:        store,
		Rebooter:        &fakeRebooter{},
		FallbackDefault: settings.NoDefaultPartition,
		Metrics:         metrics,
	})
	_, err = sess.Confirm()
	c.Assert(err, NotNil)
	c.Assert(sess.Select(1), IsNil)
	_, err = sess.Confirm()
	c.Assert(err, IsNil)

	textfile := filepath.Join(c.MkDir(), "bootsel.prom")
	c.Assert(prometheus.WriteToTextfile(textfile, reg), IsNil)
	data, err := os.ReadFile(textfile)
	c.Assert(err, IsNil)
	out := string(data)
	c.Check(out, Matches, `(?s).*bootsel_sessions_total\{outcome="await-confirm"\} 1\n.*`)
	c.Check(out, Matches, `(?s).*bootsel_boots_total\{scheme="hex-suffix"\} 1\n.*`)
	c.Check(out, Matches, `(?s).*bootsel_corrupt_references_total 1\n.*`)
	c.Check(out, Matches, `(?s).*bootsel_default_partition_writes_total 1\n.*`)
}

func (s *metricsSuite) TestNilMetrics(c *C) {
	store, err := settings.Open(filepath.Join(c.MkDir(), "noobs.conf"), &fakeVolume{})
	c.Assert(err, IsNil)
	sess := bootsel.NewSession(entries("/dev/mmcblk0p6"), &bootsel.Options{
		Settings: store,
		Rebooter: &fakeRebooter{},
	})
	_, err = sess.Confirm()
	c.Check(err, IsNil)
}
