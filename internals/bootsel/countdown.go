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

// CountdownState is the state of a Countdown.
type CountdownState int

const (
	Idle CountdownState = iota
	Running
	Cancelled
	Expired
)

func (s CountdownState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// DefaultCountdown is the number of seconds the saved default waits
// before booting.
const DefaultCountdown = 10

// Countdown counts the seconds left before the saved default boots.
//
// Start shows the full count; each Tick takes one second off, so a
// countdown of n seconds expires on its n-th tick. Cancelled and Expired
// are final.
type Countdown struct {
	state     CountdownState
	remaining int
}

func NewCountdown(seconds int) *Countdown {
	return &Countdown{remaining: max(seconds, 0)}
}

func (c *Countdown) State() CountdownState { return c.state }
func (c *Countdown) Remaining() int        { return c.remaining }

// Start moves an idle countdown to Running, or straight to Expired when
// there is no time to count. It reports whether the state changed.
func (c *Countdown) Start() bool {
	if c.state != Idle {
		return false
	}
	if c.remaining == 0 {
		c.state = Expired
	} else {
		c.state = Running
	}
	return true
}

// Tick takes one second off a running countdown.
func (c *Countdown) Tick() (remaining int, expired bool) {
	if c.state != Running {
		return c.remaining, c.state == Expired
	}
	c.remaining--
	if c.remaining == 0 {
		c.state = Expired
	}
	return c.remaining, c.state == Expired
}

// Cancel stops a running countdown. It reports whether it was running.
func (c *Countdown) Cancel() bool {
	if c.state != Running {
		return false
	}
	c.state = Cancelled
	return true
}
