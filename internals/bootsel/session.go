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

// Package bootsel resolves which installed OS to boot: it plans the boot
// menu from the catalog and the saved default, runs the auto-boot
// countdown, persists the choice and hands the partition to the rebooter.
package bootsel

import (
	"errors"
	"fmt"

	"github.com/canonical/bootsel/internals/catalog"
	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/partref"
	"github.com/canonical/bootsel/internals/settings"
)

var (
	ErrNothingBootable = errors.New("no bootable operating system installed")
	ErrNoSelection     = errors.New("no operating system selected")
	ErrAlreadyAccepted = errors.New("boot target already chosen")
)

// CorruptCatalogError is returned when the partition reference of the
// chosen entry matches neither addressing scheme.
type CorruptCatalogError struct {
	Name string
	Ref  string
}

func (e *CorruptCatalogError) Error() string {
	return fmt.Sprintf("installed_os.json corrupt: not a valid partition: %s", e.Ref)
}

// Outcome is the way a boot menu starts.
type Outcome int

const (
	// NothingBootable means the catalog has no bootable entry.
	NothingBootable Outcome = iota
	// AutoBoot means the only entry is booted right away.
	AutoBoot
	// AwaitConfirm means the user must pick and confirm an entry.
	AwaitConfirm
	// CountingDown means the saved default boots unless interrupted.
	CountingDown
)

func (o Outcome) String() string {
	switch o {
	case NothingBootable:
		return "nothing-bootable"
	case AutoBoot:
		return "auto-boot"
	case AwaitConfirm:
		return "await-confirm"
	case CountingDown:
		return "counting-down"
	}
	return fmt.Sprintf("outcome-%d", int(o))
}

// Plan is how the boot menu starts and which entry is highlighted (-1 for
// none).
type Plan struct {
	Outcome  Outcome
	Selected int
}

// PlanFor decides how the boot menu for entries starts given the saved
// default partition.
func PlanFor(entries []*catalog.Entry, savedDefault int) Plan {
	switch {
	case len(entries) == 0:
		return Plan{Outcome: NothingBootable, Selected: -1}
	case len(entries) == 1:
		return Plan{Outcome: AutoBoot, Selected: 0}
	case savedDefault == settings.NoDefaultPartition:
		return Plan{Outcome: AwaitConfirm, Selected: 0}
	}
	plan := Plan{Outcome: CountingDown, Selected: -1}
	for i, e := range entries {
		ref := partref.Decode(e.BootPartition())
		if ref.Valid() && ref.Number == savedDefault {
			logger.Debugf("Previously booted OS: %s (%s)", e.Name, e.BootPartition())
			plan.Selected = i
			break
		}
	}
	return plan
}

// SettingsStore persists the default boot partition.
type SettingsStore interface {
	DefaultPartition(def int) int
	SetDefaultPartition(n int) error
}

// Rebooter restarts the system into the given partition.
type Rebooter interface {
	Reboot(partition int) error
}

// Options configures a Session.
type Options struct {
	Settings SettingsStore
	Rebooter Rebooter
	// FallbackDefault is the default partition assumed when none is
	// saved, usually settings.NoDefaultPartition.
	FallbackDefault int
	// Metrics is optional.
	Metrics *Metrics
}

// Session is one run of the boot menu. It is not safe for concurrent use;
// a Dialog owns it while running.
type Session struct {
	entries      []*catalog.Entry
	settings     SettingsStore
	rebooter     Rebooter
	metrics      *Metrics
	savedDefault int
	plan         Plan
	selected     int
	accepted     bool
}

// NewSession reads the saved default and plans the menu for entries.
func NewSession(entries []*catalog.Entry, opts *Options) *Session {
	saved := opts.Settings.DefaultPartition(opts.FallbackDefault)
	plan := PlanFor(entries, saved)
	opts.Metrics.session(plan.Outcome)
	return &Session{
		entries:      entries,
		settings:     opts.Settings,
		rebooter:     opts.Rebooter,
		metrics:      opts.Metrics,
		savedDefault: saved,
		plan:         plan,
		selected:     plan.Selected,
	}
}

func (s *Session) Entries() []*catalog.Entry { return s.entries }
func (s *Session) Plan() Plan                { return s.plan }
func (s *Session) SavedDefault() int         { return s.savedDefault }
func (s *Session) Selected() int             { return s.selected }
func (s *Session) Accepted() bool            { return s.accepted }

// Select highlights entry i.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("no operating system number %d", i+1)
	}
	s.selected = i
	return nil
}

// Confirm boots the selected entry. The partition becomes the saved
// default first if it differs from the one already saved. A corrupt
// partition reference returns *CorruptCatalogError and leaves both the
// settings and the session untouched.
func (s *Session) Confirm() (int, error) {
	if s.accepted {
		return 0, ErrAlreadyAccepted
	}
	if len(s.entries) == 0 {
		return 0, ErrNothingBootable
	}
	if s.selected < 0 {
		return 0, ErrNoSelection
	}
	e := s.entries[s.selected]
	ref := partref.Decode(e.BootPartition())
	if !ref.Valid() {
		s.metrics.corrupt()
		return 0, &CorruptCatalogError{Name: e.Name, Ref: e.BootPartition()}
	}

	if old := s.settings.DefaultPartition(0); old != ref.Number {
		if err := s.settings.SetDefaultPartition(ref.Number); err != nil {
			return 0, fmt.Errorf("cannot save default partition: %w", err)
		}
		s.metrics.defaultSaved()
	}
	if err := s.boot(ref.Number, ref.Scheme.String()); err != nil {
		return 0, err
	}
	return ref.Number, nil
}

// ConfirmSaved boots the saved default partition without going through a
// catalog entry. It is used when the countdown expires and the saved
// default matched no entry.
func (s *Session) ConfirmSaved() (int, error) {
	if s.accepted {
		return 0, ErrAlreadyAccepted
	}
	if s.savedDefault == settings.NoDefaultPartition {
		return 0, ErrNoSelection
	}
	if err := s.boot(s.savedDefault, "saved"); err != nil {
		return 0, err
	}
	return s.savedDefault, nil
}

// boot counts the partition as booted before handing it over, since a
// successful reboot never returns.
func (s *Session) boot(partition int, scheme string) error {
	logger.Noticef("Booting partition %d", partition)
	s.metrics.boot(scheme)
	if err := s.rebooter.Reboot(partition); err != nil {
		return fmt.Errorf("cannot reboot into partition %d: %w", partition, err)
	}
	s.accepted = true
	return nil
}
