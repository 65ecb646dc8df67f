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
	. "gopkg.in/check.v1"

	"github.com/canonical/bootsel/internals/bootsel"
)

type countdownSuite struct{}

var _ = Suite(&countdownSuite{})

func (s *countdownSuite) TestExpiresAfterExactlyNTicks(c *C) {
	cd := bootsel.NewCountdown(bootsel.DefaultCountdown)
	c.Check(cd.State(), Equals, bootsel.Idle)
	c.Assert(cd.Start(), Equals, true)
	c.Check(cd.State(), Equals, bootsel.Running)
	c.Check(cd.Remaining(), Equals, 10)

	for i := 9; i > 0; i-- {
		remaining, expired := cd.Tick()
		c.Check(remaining, Equals, i)
		c.Check(expired, Equals, false)
	}
	remaining, expired := cd.Tick()
	c.Check(remaining, Equals, 0)
	c.Check(expired, Equals, true)
	c.Check(cd.State(), Equals, bootsel.Expired)

	// Further ticks change nothing.
	remaining, expired = cd.Tick()
	c.Check(remaining, Equals, 0)
	c.Check(expired, Equals, true)
}

func (s *countdownSuite) TestCancel(c *C) {
	cd := bootsel.NewCountdown(3)
	c.Check(cd.Cancel(), Equals, false)
	cd.Start()
	cd.Tick()
	c.Check(cd.Cancel(), Equals, true)
	c.Check(cd.State(), Equals, bootsel.Cancelled)

	remaining, expired := cd.Tick()
	c.Check(remaining, Equals, 2)
	c.Check(expired, Equals, false)
	c.Check(cd.Cancel(), Equals, false)
	c.Check(cd.Start(), Equals, false)
	c.Check(cd.State(), Equals, bootsel.Cancelled)
}

func (s *countdownSuite) TestNoRestartAfterExpiry(c *C) {
	cd := bootsel.NewCountdown(1)
	cd.Start()
	cd.Tick()
	c.Check(cd.Start(), Equals, false)
	c.Check(cd.Cancel(), Equals, false)
	c.Check(cd.State(), Equals, bootsel.Expired)
}

func (s *countdownSuite) TestZeroExpiresOnStart(c *C) {
	cd := bootsel.NewCountdown(0)
	c.Assert(cd.Start(), Equals, true)
	c.Check(cd.State(), Equals, bootsel.Expired)

	cd = bootsel.NewCountdown(-5)
	cd.Start()
	c.Check(cd.State(), Equals, bootsel.Expired)
	c.Check(cd.Remaining(), Equals, 0)
}

func (s *countdownSuite) TestStateString(c *C) {
	c.Check(bootsel.Idle.String(), Equals, "idle")
	c.Check(bootsel.Running.String(), Equals, "running")
	c.Check(bootsel.Cancelled.String(), Equals, "cancelled")
	c.Check(bootsel.Expired.String(), Equals, "expired")
}
