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

package langsel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/canonical/x-go/strutil/shlex"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/osutil"
)

const (
	DefaultKeymapDir     = "/keymaps"
	DefaultKeymapExt     = ".map"
	DefaultKeymapCommand = "loadkeys"
)

// KeymapDriver offers the keyboard layouts found as <layout><ext> files in
// a directory and applies one by running a loader command on its file.
type KeymapDriver struct {
	Dir string
	Ext string
	// Command is the loader command line; the keymap file is appended
	// as the last argument.
	Command string
}

func (k *KeymapDriver) dir() string {
	if k.Dir == "" {
		return DefaultKeymapDir
	}
	return k.Dir
}

func (k *KeymapDriver) ext() string {
	if k.Ext == "" {
		return DefaultKeymapExt
	}
	return k.Ext
}

// Layouts returns the available layouts, sorted.
func (k *KeymapDriver) Layouts() []string {
	entries, err := os.ReadDir(k.dir())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Noticef("Cannot list keyboard layouts: %v", err)
		}
		return nil
	}
	var layouts []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, k.ext()) {
			continue
		}
		if layout := strings.TrimSuffix(name, k.ext()); layout != "" {
			layouts = append(layouts, layout)
		}
	}
	sort.Strings(layouts)
	return layouts
}

// Apply loads the keymap for layout. A layout without a keymap file is
// skipped.
func (k *KeymapDriver) Apply(layout string) error {
	path := filepath.Join(k.dir(), layout+k.ext())
	if !osutil.CanStat(path) {
		logger.Debugf("No keymap for layout %q", layout)
		return nil
	}
	command := k.Command
	if command == "" {
		command = DefaultKeymapCommand
	}
	args, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("cannot parse keymap command: %w", err)
	}
	if len(args) == 0 {
		return errors.New("keymap command is empty")
	}
	if !osutil.IsExecInPath(args[0]) {
		return fmt.Errorf("cannot load keymap %q: %q not found", layout, args[0])
	}
	args = append(args, path)
	out, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("cannot load keymap %q: %w: %s", layout, err, strings.TrimSpace(string(out)))
	}
	return nil
}
