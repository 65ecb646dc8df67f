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

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/term"

	"github.com/canonical/bootsel/internals/bootsel"
	"github.com/canonical/bootsel/internals/catalog"
	"github.com/canonical/bootsel/internals/logger"
)

type localizer interface {
	Localize(msg *i18n.Message, data map[string]any) string
}

// termPresenter draws the boot menu as lines of text.
type termPresenter struct {
	w   io.Writer
	loc localizer
	// eol ends every line; raw terminals need "\r\n".
	eol string
}

func (p *termPresenter) println(s string) {
	fmt.Fprint(p.w, s, p.eol)
}

func (p *termPresenter) ShowEntries(entries []*catalog.Entry, selected int) {
	p.println(p.loc.Localize(msgChoose, nil))
	for i, e := range entries {
		mark := " "
		if i == selected {
			mark = ">"
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, e.Name)
		if desc := strings.TrimSpace(e.Description); desc != "" {
			line += " - " + desc
		}
		p.println(line)
	}
}

func (p *termPresenter) ShowCountdown(remaining int) {
	p.println(p.loc.Localize(msgCountdown, map[string]any{"Seconds": remaining}))
}

func (p *termPresenter) ShowPrompt() {
	p.println(p.loc.Localize(msgKeys, nil))
}

func (p *termPresenter) ShowError(err error) {
	p.println(p.loc.Localize(msgCannotBoot, map[string]any{"Error": err}))
}

// keyAction maps a key press to a boot menu action.
func keyAction(b byte) bootsel.Action {
	switch {
	case b >= '1' && b <= '9':
		return bootsel.Select(int(b - '1'))
	case b == '\r' || b == '\n':
		return bootsel.Action{Kind: bootsel.ConfirmEntry}
	case b == 'q' || b == 0x03:
		return bootsel.Action{Kind: bootsel.Abort}
	}
	return bootsel.Action{Kind: bootsel.KeyPress}
}

// readActions turns bytes from r into actions until r ends or done is
// closed. The channel is closed when r ends.
func readActions(r io.Reader, done <-chan struct{}) <-chan bootsel.Action {
	actions := make(chan bootsel.Action)
	go func() {
		defer close(actions)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case actions <- keyAction(buf[0]):
				case <-done:
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					logger.Noticef("Cannot read input: %v", err)
				}
				return
			}
		}
	}()
	return actions
}

// rawInput puts a terminal on stdin into raw mode so single key presses
// are seen. It reports whether it did.
func rawInput() (raw bool, restore func()) {
	f, ok := Stdin.(*os.File)
	if !ok || !isStdinTTY {
		return false, func() {}
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		logger.Noticef("Cannot read single key presses: %v", err)
		return false, func() {}
	}
	return true, func() { term.Restore(int(f.Fd()), state) }
}
