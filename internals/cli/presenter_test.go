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

package cli_test

import (
	"errors"
	"strings"

	. "gopkg.in/check.v1"

	"github.com/canonical/bootsel/internals/bootsel"
	"github.com/canonical/bootsel/internals/cli"
	"github.com/canonical/bootsel/internals/logger"
)

type presenterSuite struct{}

var _ = Suite(&presenterSuite{})

func (s *presenterSuite) TestKeyAction(c *C) {
	c.Check(cli.KeyAction('1'), Equals, bootsel.Select(0))
	c.Check(cli.KeyAction('9'), Equals, bootsel.Select(8))
	c.Check(cli.KeyAction('\r'), Equals, bootsel.Action{Kind: bootsel.ConfirmEntry})
	c.Check(cli.KeyAction('\n'), Equals, bootsel.Action{Kind: bootsel.ConfirmEntry})
	c.Check(cli.KeyAction('q'), Equals, bootsel.Action{Kind: bootsel.Abort})
	c.Check(cli.KeyAction(0x03), Equals, bootsel.Action{Kind: bootsel.Abort})
	c.Check(cli.KeyAction('0'), Equals, bootsel.Action{Kind: bootsel.KeyPress})
	c.Check(cli.KeyAction(' '), Equals, bootsel.Action{Kind: bootsel.KeyPress})
}

func (s *presenterSuite) TestReadActions(c *C) {
	done := make(chan struct{})
	defer close(done)
	actions := cli.ReadActions(strings.NewReader("x3\r"), done)

	var got []bootsel.Action
	for a := range actions {
		got = append(got, a)
	}
	c.Check(got, DeepEquals, []bootsel.Action{
		{Kind: bootsel.KeyPress},
		bootsel.Select(2),
		{Kind: bootsel.ConfirmEntry},
	})
}

type failingReader struct {
	data string
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("device gone")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func (s *presenterSuite) TestReadActionsError(c *C) {
	logbuf, restore := logger.MockLogger("")
	defer restore()
	done := make(chan struct{})
	defer close(done)
	actions := cli.ReadActions(&failingReader{data: "1"}, done)
	c.Check(<-actions, Equals, bootsel.Select(0))
	_, ok := <-actions
	c.Check(ok, Equals, false)
	c.Check(logbuf.String(), Matches, `(?s).*Cannot read input: device gone.*`)
}
