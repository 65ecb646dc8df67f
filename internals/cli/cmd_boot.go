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
	"errors"
	"fmt"
	"os"

	"github.com/canonical/go-flags"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/bootsel/internals/bootsel"
	"github.com/canonical/bootsel/internals/catalog"
	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/settings"
)

const cmdBootSummary = "Show the boot menu and boot the chosen system"
const cmdBootDescription = `
The boot command lists the installed operating systems and reboots into the
one chosen. A single installed system boots right away. Otherwise the
system booted last time boots after a countdown, unless a key is pressed.

Press a number to select a system, Enter to boot it and q to quit.
`

type cmdBoot struct {
	cfg *config.Config

	NoReboot bool `long:"no-reboot"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "boot",
		Summary:     cmdBootSummary,
		Description: cmdBootDescription,
		ArgsHelp: map[string]string{
			"--no-reboot": "Select the partition for the next boot but do not restart",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdBoot{cfg: opts.Config}
		},
	})
}

func (cmd *cmdBoot) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	cfg := cmd.cfg

	store, err := openSettings(cfg)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsUnavailable) {
			fmt.Fprintln(Stderr, msgCannotShowMenu.Other)
		}
		return err
	}
	prepareRecovery(recoveryMount(cfg))

	sel, err := newSelector(cfg, store)
	if err != nil {
		return err
	}
	if msg := displayModeMessage(store.DisplayMode()); msg != nil {
		fmt.Fprintln(Stdout, sel.Localize(msg, nil))
	}

	reg := prometheus.NewRegistry()
	defer writeMetrics(cfg.Metrics.Textfile, reg)

	cat := catalog.Load(cfg.Catalog.Path, &catalog.Options{
		CanBoot: catalog.ModelPredicate(catalog.ReadModel(cfg.Catalog.ModelPath)),
		MinIconSize: catalog.Size{
			Width:  cfg.Catalog.MinIconSize,
			Height: cfg.Catalog.MinIconSize,
		},
	})
	sess := bootsel.NewSession(cat.Entries, &bootsel.Options{
		Settings: store,
		Rebooter: &textfileRebooter{
			Rebooter: newRebooter(cfg, cmd.NoReboot),
			path:     cfg.Metrics.Textfile,
			gatherer: reg,
		},
		FallbackDefault: cfg.Boot.DefaultPartition,
		Metrics:         bootsel.NewMetrics(reg),
	})

	raw, restore := rawInput()
	defer restore()
	eol := "\n"
	if raw {
		eol = "\r\n"
	}
	presenter := &termPresenter{w: Stdout, loc: sel, eol: eol}

	done := make(chan struct{})
	defer close(done)
	dialog := bootsel.NewDialog(sess, presenter, readActions(Stdin, done), &bootsel.DialogOptions{
		Countdown: cfg.Boot.Countdown,
	})
	dialog.Start()

	sigs := make(chan os.Signal, 1)
	defer notifyStop(sigs)()
	go func() {
		select {
		case sig := <-sigs:
			logger.Noticef("Leaving the boot menu on %s signal", sig)
			dialog.Stop()
		case <-done:
		}
	}()

	partition, err := dialog.Wait()
	if err != nil {
		if err == bootsel.ErrNothingBootable {
			fmt.Fprint(Stderr, sel.Localize(msgNothingBootable, nil), eol)
		}
		return err
	}
	presenter.println(sel.Localize(msgBooting, map[string]any{"Partition": partition}))
	return nil
}
