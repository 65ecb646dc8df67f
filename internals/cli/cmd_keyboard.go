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

	"github.com/canonical/go-flags"
	"github.com/canonical/x-go/strutil"

	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/logger"
)

const cmdKeyboardSummary = "Show or change the keyboard layout"
const cmdKeyboardDescription = `
The keyboard command shows the current keyboard layout. Given a layout name
it loads that layout and remembers it for the next boot.
`

type cmdKeyboard struct {
	cfg *config.Config

	List       bool `long:"list"`
	Positional struct {
		Layout string `positional-arg-name:"<layout>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "keyboard",
		Summary:     cmdKeyboardSummary,
		Description: cmdKeyboardDescription,
		ArgsHelp: map[string]string{
			"--list":   "List the available keyboard layouts",
			"<layout>": "Keyboard layout, such as us or de",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdKeyboard{cfg: opts.Config}
		},
	})
}

func (cmd *cmdKeyboard) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	if cmd.List && cmd.Positional.Layout != "" {
		return fmt.Errorf("cannot use --list with a layout")
	}
	store, err := openSettings(cmd.cfg)
	if err != nil {
		return err
	}
	sel := openSelector(cmd.cfg, store)

	switch layout := cmd.Positional.Layout; {
	case layout != "":
		if !strutil.ListContains(sel.KeyboardLayouts(), layout) {
			logger.Noticef("No keymap for layout %q, keeping the current keymap", layout)
		}
		return sel.ChangeKeyboardLayout(layout)
	case cmd.List:
		for _, layout := range sel.KeyboardLayouts() {
			mark := " "
			if layout == sel.KeyboardLayout() {
				mark = "*"
			}
			fmt.Fprintf(Stdout, "%s %s\n", mark, layout)
		}
		return nil
	}
	fmt.Fprintln(Stdout, sel.KeyboardLayout())
	return nil
}
