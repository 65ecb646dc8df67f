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

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"gopkg.in/tomb.v2"

	"github.com/canonical/bootsel/internals/catalog"
	"github.com/canonical/bootsel/internals/logger"
)

var (
	ErrAborted = errors.New("boot menu aborted")
	ErrStopped = errors.New("boot menu stopped")
)

// ActionKind is a kind of user input reaching the boot menu.
type ActionKind int

const (
	KeyPress ActionKind = iota
	PointerPress
	SelectEntry
	ConfirmEntry
	Abort
)

// Action is one user input. Index is the entry for SelectEntry.
type Action struct {
	Kind  ActionKind
	Index int
}

// Select returns the action highlighting entry i.
func Select(i int) Action {
	return Action{Kind: SelectEntry, Index: i}
}

// Presenter shows the boot menu to the user.
type Presenter interface {
	ShowEntries(entries []*catalog.Entry, selected int)
	// ShowCountdown shows the seconds left before the default boots.
	ShowCountdown(remaining int)
	// ShowPrompt replaces the countdown with a plain request to choose.
	ShowPrompt()
	// ShowError reports a problem the user can recover from by picking
	// another entry.
	ShowError(err error)
}

// DialogOptions configures a Dialog.
type DialogOptions struct {
	// Countdown is the number of seconds before the default boots.
	Countdown int
	// Clock drives the countdown; the wall clock is used if nil.
	Clock clock.Clock
}

// Dialog runs a Session as an event loop: actions from the user and
// countdown ticks are handled one at a time until a partition is booted.
type Dialog struct {
	session   *Session
	presenter Presenter
	actions   <-chan Action
	clock     clock.Clock
	countdown *Countdown

	tomb      tomb.Tomb
	partition int
}

// NewDialog creates a dialog for the session. Closing actions means no
// more input will arrive.
func NewDialog(session *Session, presenter Presenter, actions <-chan Action, opts *DialogOptions) *Dialog {
	if opts == nil {
		opts = &DialogOptions{Countdown: DefaultCountdown}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Dialog{
		session:   session,
		presenter: presenter,
		actions:   actions,
		clock:     clk,
		countdown: NewCountdown(opts.Countdown),
	}
}

// Start runs the dialog in its own goroutine.
func (d *Dialog) Start() {
	d.tomb.Go(d.loop)
}

// Wait blocks until the dialog is done and returns the booted partition.
func (d *Dialog) Wait() (int, error) {
	if err := d.tomb.Wait(); err != nil {
		return 0, err
	}
	return d.partition, nil
}

// Stop ends a running dialog without booting anything.
func (d *Dialog) Stop() error {
	d.tomb.Kill(ErrStopped)
	_, err := d.Wait()
	if err == ErrStopped {
		return nil
	}
	return err
}

// Countdown exposes the countdown state.
func (d *Dialog) Countdown() *Countdown {
	return d.countdown
}

func (d *Dialog) loop() error {
	plan := d.session.Plan()
	d.presenter.ShowEntries(d.session.Entries(), d.session.Selected())

	var ticker *clock.Ticker
	var ticks <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	defer stopTicker()

	switch plan.Outcome {
	case NothingBootable:
		return ErrNothingBootable
	case AutoBoot:
		logger.Debugf("Only one OS installed, booting it")
		if done, err := d.finish(d.session.Confirm()); done {
			return err
		}
	case AwaitConfirm:
		d.presenter.ShowPrompt()
	case CountingDown:
		logger.Debugf("Booting partition %d in %d seconds", d.session.SavedDefault(), d.countdown.Remaining())
		ticker = d.clock.Ticker(time.Second)
		ticks = ticker.C
		d.countdown.Start()
		d.presenter.ShowCountdown(d.countdown.Remaining())
		if d.countdown.State() == Expired {
			stopTicker()
			if done, err := d.expire(); done {
				return err
			}
		}
	}

	actions := d.actions
	for {
		select {
		case <-ticks:
			remaining, expired := d.countdown.Tick()
			d.presenter.ShowCountdown(remaining)
			if expired {
				stopTicker()
				if done, err := d.expire(); done {
					return err
				}
				if actions == nil {
					return ErrAborted
				}
			}

		case a, ok := <-actions:
			if !ok {
				actions = nil
				if d.countdown.State() == Running {
					continue
				}
				return ErrAborted
			}
			if d.countdown.Cancel() {
				stopTicker()
				logger.Debugf("Countdown cancelled")
				d.session.metrics.countdown(Cancelled)
				d.presenter.ShowPrompt()
			}
			switch a.Kind {
			case SelectEntry:
				if err := d.session.Select(a.Index); err != nil {
					d.presenter.ShowError(err)
					continue
				}
				d.presenter.ShowEntries(d.session.Entries(), d.session.Selected())
			case ConfirmEntry:
				if done, err := d.finish(d.session.Confirm()); done {
					return err
				}
			case Abort:
				return ErrAborted
			}

		case <-d.tomb.Dying():
			return nil
		}
	}
}

func (d *Dialog) expire() (done bool, err error) {
	d.session.metrics.countdown(Expired)
	if d.session.Selected() >= 0 {
		return d.finish(d.session.Confirm())
	}
	return d.finish(d.session.ConfirmSaved())
}

// finish reports whether the dialog is over after a confirmation attempt.
// Problems with the chosen entry are shown and the dialog carries on.
func (d *Dialog) finish(partition int, err error) (done bool, rerr error) {
	var corrupt *CorruptCatalogError
	switch {
	case err == nil:
		d.partition = partition
		return true, nil
	case errors.As(err, &corrupt), errors.Is(err, ErrNoSelection):
		logger.Noticef("Cannot boot: %v", err)
		d.presenter.ShowError(err)
		return false, nil
	}
	return true, err
}
