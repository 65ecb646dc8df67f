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

	"github.com/canonical/bootsel/internals/catalog"
	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/partref"
)

const cmdListSummary = "List the bootable operating systems"
const cmdListDescription = `
The list command shows the operating systems that can be booted on this
hardware, in menu order, and marks the default one.
`

type cmdList struct {
	cfg *config.Config
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "list",
		Summary:     cmdListSummary,
		Description: cmdListDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdList{cfg: opts.Config}
		},
	})
}

func (cmd *cmdList) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	store, err := openSettings(cmd.cfg)
	if err != nil {
		return err
	}
	saved := store.DefaultPartition(cmd.cfg.Boot.DefaultPartition)

	cat := catalog.Load(cmd.cfg.Catalog.Path, &catalog.Options{
		CanBoot: catalog.ModelPredicate(catalog.ReadModel(cmd.cfg.Catalog.ModelPath)),
	})
	if len(cat.Entries) == 0 {
		fmt.Fprintln(Stderr, msgNothingBootable.Other)
		return nil
	}

	w := tabWriter()
	defer w.Flush()
	fmt.Fprintln(w, "#\tName\tPartition\tDefault\tDescription")
	for i, e := range cat.Entries {
		ref := partref.Decode(e.BootPartition())
		partition := "invalid"
		if ref.Valid() {
			partition = fmt.Sprint(ref.Number)
		}
		mark := "-"
		if ref.Valid() && ref.Number == saved {
			mark = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Name, partition, mark, e.Description)
	}
	return nil
}
