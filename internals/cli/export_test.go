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

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/settings"
)

func init() {
	// Lint complaints fail the tests.
	noticef = logger.Panicf
}

var (
	KeyAction      = keyAction
	ReadActions    = readActions
	ParsePartition = parsePartition
)

func FakePrepareSettings(f func(m *settings.PartitionMount) error) (restore func()) {
	old := prepareSettings
	prepareSettings = f
	return func() { prepareSettings = old }
}

func FakePrepareRecovery(f func(m *settings.PartitionMount)) (restore func()) {
	old := prepareRecovery
	prepareRecovery = f
	return func() { prepareRecovery = old }
}

func FakeNewVolume(f func(dir string) settings.Volume) (restore func()) {
	old := newVolume
	newVolume = f
	return func() { newVolume = old }
}

func FakeOsExit(f func(code int)) (restore func()) {
	old := osExit
	osExit = f
	return func() { osExit = old }
}

func FakeNotifyStop(f func(ch chan<- os.Signal) (stop func())) (restore func()) {
	old := notifyStop
	notifyStop = f
	return func() { notifyStop = old }
}
