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

	"github.com/canonical/bootsel/internals/config"
)

const cmdLanguageSummary = "Show or change the menu language"
const cmdLanguageDescription = `
The language command lists the available languages and marks the current
one. Given a language code it switches to that language, along with the
keyboard layout that goes with it.
`

type cmdLanguage struct {
	cfg *config.Config

	Positional struct {
		Code string `positional-arg-name:"<code>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "language",
		Summary:     cmdLanguageSummary,
		Description: cmdLanguageDescription,
		ArgsHelp: map[string]string{
			"<code>": "Language code, such as de or gb",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdLanguage{cfg: opts.Config}
		},
	})
}

func (cmd *cmdLanguage) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	store, err := openSettings(cmd.cfg)
	if err != nil {
		return err
	}
	sel := openSelector(cmd.cfg, store)

	if code := cmd.Positional.Code; code != "" {
		return sel.ChangeLanguage(code)
	}

	w := tabWriter()
	defer w.Flush()
	fmt.Fprintln(w, "Code\tLanguage\tCurrent")
	for _, l := range sel.Languages() {
		mark := "-"
		if l.Code == sel.Language() {
			mark = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, mark)
	}
	return nil
}
