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
	"strconv"

	"github.com/canonical/go-flags"

	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/partref"
	"github.com/canonical/bootsel/internals/settings"
)

const cmdDefaultSummary = "Show or change the default boot partition"
const cmdDefaultDescription = `
The default command shows the partition that boots after the countdown. Given
a partition number or reference, such as 6, /dev/mmcblk0p6 or
PARTUUID=000dbedf-06, it makes that partition the default.

With --clear the boot menu waits for a choice every time.
`

type cmdDefault struct {
	cfg *config.Config

	Clear      bool `long:"clear"`
	Positional struct {
		Partition string `positional-arg-name:"<partition>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "default",
		Summary:     cmdDefaultSummary,
		Description: cmdDefaultDescription,
		ArgsHelp: map[string]string{
			"--clear":     "Ask for a choice on every boot",
			"<partition>": "Partition number or reference to boot by default",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdDefault{cfg: opts.Config}
		},
	})
}

// parsePartition accepts a bare partition number or a partition reference.
func parsePartition(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid partition number %d", n)
		}
		return n, nil
	}
	ref := partref.Decode(s)
	if !ref.Valid() {
		return 0, fmt.Errorf("invalid partition %q", s)
	}
	if ref.Number <= 0 {
		return 0, fmt.Errorf("invalid partition number %d in %q", ref.Number, s)
	}
	return ref.Number, nil
}

func (cmd *cmdDefault) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	if cmd.Clear && cmd.Positional.Partition != "" {
		return fmt.Errorf("cannot use --clear with a partition")
	}
	var partition int
	if cmd.Positional.Partition != "" {
		n, err := parsePartition(cmd.Positional.Partition)
		if err != nil {
			return err
		}
		partition = n
	}

	store, err := openSettings(cmd.cfg)
	if err != nil {
		return err
	}

	switch {
	case cmd.Clear:
		return store.SetDefaultPartition(settings.NoDefaultPartition)
	case cmd.Positional.Partition != "":
		return store.SetDefaultPartition(partition)
	}

	n := store.DefaultPartition(cmd.cfg.Boot.DefaultPartition)
	if n == settings.NoDefaultPartition {
		fmt.Fprintln(Stdout, "none")
	} else {
		fmt.Fprintln(Stdout, n)
	}
	return nil
}
