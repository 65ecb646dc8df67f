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

package cli_test

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/canonical/bootsel/cmd"
	"github.com/canonical/bootsel/internals/cli"
	"github.com/canonical/bootsel/internals/settings"
)

func (s *BootselSuite) TestList(c *C) {
	s.writeCatalog(c, `[
		{"name": "Raspbian", "description": "A Debian based OS", "partitions": ["/dev/mmcblk0p6"]},
		{"name": "LibreELEC", "partitions": ["PARTUUID=000dbedf-08"]},
		{"name": "Broken", "partitions": ["garbage"]}
	]`)
	s.writeSettings(c, "[General]\ndefault_partition_to_boot=8\n")

	_, err := s.run("list")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Matches, `#\s+Name\s+Partition\s+Default\s+Description\n`+
		`1\s+Raspbian\s+6\s+-\s+A Debian based OS\n`+
		`2\s+LibreELEC\s+8\s+yes\s*\n`+
		`3\s+Broken\s+invalid\s+-\s*\n`)
	c.Check(s.Stderr(), Equals, "")
	c.Check(s.vol.calls, HasLen, 0)
}

func (s *BootselSuite) TestListEmpty(c *C) {
	_, err := s.run("list")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "")
	c.Check(s.Stderr(), Equals, "No bootable operating system is installed\n")
}

func (s *BootselSuite) TestDefaultShow(c *C) {
	_, err := s.run("default")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "none\n")

	s.ResetStdStreams()
	s.writeSettings(c, "[General]\ndefault_partition_to_boot=6\n")
	_, err = s.run("default")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "6\n")
}

func (s *BootselSuite) TestDefaultSet(c *C) {
	for _, t := range []struct {
		arg       string
		partition int
	}{
		{"7", 7},
		{"/dev/mmcblk0p9", 9},
		{"PARTUUID=000dbedf-0a", 10},
	} {
		s.vol.calls = nil
		_, err := s.run("default", t.arg)
		c.Assert(err, IsNil, Commentf("%s", t.arg))
		c.Check(s.openSettings(c).DefaultPartition(0), Equals, t.partition)
		c.Check(s.vol.calls, DeepEquals, []string{"rw", "ro"})
	}
}

func (s *BootselSuite) TestDefaultClear(c *C) {
	s.writeSettings(c, "[General]\ndefault_partition_to_boot=6\n")
	_, err := s.run("default", "--clear")
	c.Assert(err, IsNil)
	c.Check(s.openSettings(c).DefaultPartition(0), Equals, settings.NoDefaultPartition)
}

func (s *BootselSuite) TestDefaultErrors(c *C) {
	_, err := s.run("default", "--clear", "6")
	c.Check(err, ErrorMatches, "cannot use --clear with a partition")
	_, err = s.run("default", "garbage")
	c.Check(err, ErrorMatches, `invalid partition "garbage"`)
	_, err = s.run("default", "0")
	c.Check(err, ErrorMatches, "invalid partition number 0")
	_, err = s.run("default", "PARTUUID=000dbedf-00")
	c.Check(err, ErrorMatches, `invalid partition number 0 in "PARTUUID=000dbedf-00"`)
	c.Check(s.Stdout(), Equals, "")
	c.Check(s.vol.calls, HasLen, 0)
}

func (s *BootselSuite) TestParsePartition(c *C) {
	n, err := cli.ParsePartition("12")
	c.Assert(err, IsNil)
	c.Check(n, Equals, 12)
	n, err = cli.ParsePartition("/dev/sda3")
	c.Assert(err, IsNil)
	c.Check(n, Equals, 3)
	_, err = cli.ParsePartition("-4")
	c.Check(err, NotNil)
	_, err = cli.ParsePartition("PARTUUID=000dbedf-00")
	c.Check(err, ErrorMatches, `invalid partition number 0 in "PARTUUID=000dbedf-00"`)
	_, err = cli.ParsePartition("/dev/mmcblk0p0")
	c.Check(err, ErrorMatches, `invalid partition number 0 in "/dev/mmcblk0p0"`)
}

func (s *BootselSuite) TestLanguageList(c *C) {
	for _, name := range []string{"de.toml", "ast.json"} {
		c.Assert(os.WriteFile(filepath.Join(s.cfg.Language.TranslationsDir, name), []byte("\n"), 0644), IsNil)
	}
	s.writeSettings(c, "[General]\nlanguage=us\n")

	_, err := s.run("language")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Matches, `Code\s+Language\s+Current\n`+
		`gb\s+English \(UK\)\s+-\n`+
		`us\s+English \(US\)\s+yes\n`+
		`ast\s+Asturian\s+-\n`+
		`de\s+Deutsch\s+-\n`)
	c.Check(s.vol.calls, HasLen, 0)
}

func (s *BootselSuite) TestLanguageChange(c *C) {
	c.Assert(os.WriteFile(filepath.Join(s.cfg.Keyboard.Dir, "jp.map"), nil, 0644), IsNil)
	s.cfg.Keyboard.Command = "true"

	_, err := s.run("language", "ja")
	c.Assert(err, IsNil)
	store := s.openSettings(c)
	c.Check(store.Language(""), Equals, "ja")
	c.Check(store.KeyboardLayout(""), Equals, "jp")
}

func (s *BootselSuite) TestKeyboardShow(c *C) {
	s.writeSettings(c, "[General]\nlanguage=us\nkeyboard_layout=de\n")
	_, err := s.run("keyboard")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "de\n")
	c.Check(s.vol.calls, HasLen, 0)
}

func (s *BootselSuite) TestShowOnWriteProtectedSettings(c *C) {
	s.vol.protected = true

	_, err := s.run("keyboard")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "gb\n")

	s.ResetStdStreams()
	_, err = s.run("keyboard", "--list")
	c.Assert(err, IsNil)

	s.ResetStdStreams()
	_, err = s.run("language")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Matches, `(?s)Code\s+Language\s+Current\ngb\s+English \(UK\)\s+yes\n.*`)
	c.Check(s.vol.calls, HasLen, 0)

	_, err = s.run("keyboard", "de")
	c.Check(err, ErrorMatches, "cannot save keyboard layout: .*read-only file system")
}

func (s *BootselSuite) TestKeyboardList(c *C) {
	for _, name := range []string{"de.map", "us.map"} {
		c.Assert(os.WriteFile(filepath.Join(s.cfg.Keyboard.Dir, name), nil, 0644), IsNil)
	}
	s.cfg.Keyboard.Command = "true"
	s.writeSettings(c, "[General]\nlanguage=us\nkeyboard_layout=de\n")

	_, err := s.run("keyboard", "--list")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "* de\n  us\n")
	c.Check(s.vol.calls, HasLen, 0)
}

func (s *BootselSuite) TestKeyboardChange(c *C) {
	_, err := s.run("keyboard", "se")
	c.Assert(err, IsNil)
	c.Check(s.openSettings(c).KeyboardLayout(""), Equals, "se")
	c.Check(s.logbuf.String(), Matches, `(?s).*No keymap for layout "se", keeping the current keymap.*`)

	_, err = s.run("keyboard", "--list", "se")
	c.Check(err, ErrorMatches, "cannot use --list with a layout")
}

func (s *BootselSuite) TestVersion(c *C) {
	old := cmd.Version
	cmd.Version = "4.56"
	defer func() { cmd.Version = old }()

	_, err := s.run("version")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "4.56\n")
	c.Check(s.Stderr(), Equals, "")
}

func (s *BootselSuite) TestVersionExtraArgs(c *C) {
	rest, err := s.run("version", "extra", "args")
	c.Assert(err, Equals, cli.ErrExtraArgs)
	c.Assert(rest, HasLen, 1)
}
