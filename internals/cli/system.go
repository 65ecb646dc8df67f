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
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/bootsel/internals/bootsel"
	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/langsel"
	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/settings"
)

// Hooks into the system, replaced in tests.
var (
	prepareSettings = settings.Prepare
	prepareRecovery = settings.PrepareRecovery
	newVolume       = func(dir string) settings.Volume {
		return settings.MountVolume{Dir: dir}
	}
	newRebooter = func(cfg *config.Config, noRestart bool) bootsel.Rebooter {
		return &bootsel.SysfsRebooter{Params: cfg.Boot.RebootParams, NoRestart: noRestart}
	}
	// notifyStop relays the signals that close the boot menu.
	notifyStop = func(ch chan<- os.Signal) (stop func()) {
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGHUP)
		return func() { signal.Stop(ch) }
	}
)

func tabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(Stdout, 5, 3, 2, ' ', 0)
}

func settingsMount(cfg *config.Config) *settings.PartitionMount {
	return &settings.PartitionMount{
		Drive:     cfg.Drive,
		Partition: cfg.Settings.Partition,
		Dir:       cfg.Settings.Dir,
		FSType:    cfg.Settings.FSType,
	}
}

func recoveryMount(cfg *config.Config) *settings.PartitionMount {
	return &settings.PartitionMount{
		Drive:     cfg.Drive,
		Partition: cfg.Recovery.Partition,
		Dir:       cfg.Recovery.Dir,
		FSType:    cfg.Recovery.FSType,
	}
}

// openSettings makes the settings partition available and opens the
// settings file on it.
func openSettings(cfg *config.Config) (*settings.Store, error) {
	if err := prepareSettings(settingsMount(cfg)); err != nil {
		return nil, err
	}
	return settings.Open(cfg.SettingsPath(), newVolume(cfg.Settings.Dir))
}

// newSelector restores the saved language and keyboard layout.
func newSelector(cfg *config.Config, store *settings.Store) (*langsel.Selector, error) {
	return langsel.New(selectorOptions(cfg, store))
}

// openSelector reads the saved language and keyboard layout without
// touching the keyboard or the settings volume.
func openSelector(cfg *config.Config, store *settings.Store) *langsel.Selector {
	return langsel.Open(selectorOptions(cfg, store))
}

func selectorOptions(cfg *config.Config, store *settings.Store) *langsel.Options {
	return &langsel.Options{
		Settings:   store,
		Translator: langsel.NewTranslations(cfg.Language.TranslationsDir),
		Keyboard: &langsel.KeymapDriver{
			Dir:     cfg.Keyboard.Dir,
			Ext:     cfg.Keyboard.Ext,
			Command: cfg.Keyboard.Command,
		},
		DefaultLanguage: cfg.Language.Default,
		DefaultLayout:   cfg.Keyboard.Default,
	}
}

// writeMetrics saves the counters for the node exporter textfile
// collector, if configured.
func writeMetrics(path string, g prometheus.Gatherer) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		logger.Noticef("Cannot write metrics: %v", err)
	}
}

// textfileRebooter writes the metrics before the system goes down.
type textfileRebooter struct {
	bootsel.Rebooter
	path     string
	gatherer prometheus.Gatherer
}

func (r *textfileRebooter) Reboot(partition int) error {
	writeMetrics(r.path, r.gatherer)
	return r.Rebooter.Reboot(partition)
}

// displayModeMessage returns the notice for a non-default display mode.
func displayModeMessage(mode settings.DisplayMode) *i18n.Message {
	switch mode {
	case settings.DisplayHDMISafe:
		return msgHDMISafe
	case settings.DisplayCompositePAL:
		return msgCompositePAL
	case settings.DisplayCompositeNTSC:
		return msgCompositeNTSC
	}
	return nil
}
