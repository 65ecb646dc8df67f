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
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/canonical/go-flags"

	cmdpkg "github.com/canonical/bootsel/cmd"
	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/logger"
)

const cmdHelpSummary = "Show help about a command"
const cmdHelpDescription = `
The help command displays information about commands.
`

type cmdHelp struct {
	parser *flags.Parser

	All        bool `long:"all"`
	Positional struct {
		Subs []string `positional-arg-name:"<command>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "help",
		Summary:     cmdHelpSummary,
		Description: cmdHelpDescription,
		ArgsHelp: map[string]string{
			"--all":     "Show a short summary of all commands",
			"<command>": "Command to show help for",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdHelp{parser: opts.Parser}
		},
	})
}

// addHelp adds --help like what go-flags would do for us, but hidden
func addHelp(parser *flags.Parser) error {
	var help struct {
		ShowHelp func() error `short:"h" long:"help"`
	}
	help.ShowHelp = func() error {
		// this function is called via --help (or -h). In that
		// case, parser.Command.Active should be the command
		// on which help is being requested (like "bootsel foo
		// --help", active is foo), or nil in the toplevel.
		if parser.Command.Active == nil {
			// toplevel --help gets handled via ErrCommandRequired
			return &flags.Error{Type: flags.ErrCommandRequired}
		}
		// not toplevel, so ask for regular help
		return &flags.Error{Type: flags.ErrHelp}
	}
	hlpgrp, err := parser.AddGroup("Help Options", "", &help)
	if err != nil {
		return err
	}
	hlpgrp.Hidden = true
	hlp := parser.FindOptionByLongName("help")
	hlp.Description = "Show this help message"
	hlp.Hidden = true

	return nil
}

func (cmd cmdHelp) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	if cmd.All {
		if len(cmd.Positional.Subs) > 0 {
			return fmt.Errorf("help accepts a command, or '--all', but not both.")
		}
		printLongHelp(cmd.parser)
		return nil
	}

	var subcmd = cmd.parser.Command
	for _, subname := range cmd.Positional.Subs {
		subcmd = subcmd.Find(subname)
		if subcmd == nil {
			sug := cmdpkg.ProgramName + " help"
			if x := cmd.parser.Command.Active; x != nil && x.Name != "help" {
				sug = cmdpkg.ProgramName + " help " + x.Name
			}
			return fmt.Errorf("unknown command %q, see '%s'.", subname, sug)
		}
		// this makes "bootsel help foo" work the same as "bootsel foo --help"
		cmd.parser.Command.Active = subcmd
	}
	if subcmd != cmd.parser.Command {
		return &flags.Error{Type: flags.ErrHelp}
	}
	return &flags.Error{Type: flags.ErrCommandRequired}
}

type HelpCategory struct {
	Label       string
	Description string
	Commands    []string
}

// HelpCategories helps us by grouping commands
var HelpCategories = []HelpCategory{{
	Label:       "Boot",
	Description: "choose and boot an operating system",
	Commands:    []string{"boot", "list", "default"},
}, {
	Label:       "Locale",
	Description: "language and keyboard layout",
	Commands:    []string{"language", "keyboard"},
}, {
	Label:       "Info",
	Description: "help and version information",
	Commands:    []string{"help", "version"},
}}

var (
	HelpHeader = strings.TrimSpace(`
{{.DisplayName}} shows the operating systems installed on this drive, lets
you pick one and reboots into it. The last choice boots by itself after a
short countdown.
`)
	usage               = "Usage: {{.ProgramName}} <command> [<options>...]"
	helpCategoriesIntro = "Commands can be classified as follows:"

	HelpFooter = strings.TrimSpace(`
Set the BOOTSEL_CONFIG environment variable to override the configuration
file (which defaults to {{.ConfigPath}}).
`)

	helpAllFooter = "For more information about a command, run '{{.ProgramName}} help <command>'."
	helpFooter    = "For a short summary of all commands, run '{{.ProgramName}} help --all'."
)

// applyPersonality fills in the program name and paths in help text.
func applyPersonality(s string) string {
	t, err := template.New("help").Parse(s)
	if err != nil {
		logger.Panicf("cannot parse help text: %v", err)
	}
	var buf bytes.Buffer
	t.Execute(&buf, map[string]string{
		"ProgramName": cmdpkg.ProgramName,
		"DisplayName": cmdpkg.DisplayName,
		"ConfigPath":  config.DefaultPath,
	})
	return buf.String()
}

func printHelpHeader() {
	fmt.Fprintln(Stdout, applyPersonality(HelpHeader))
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, applyPersonality(usage))
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, applyPersonality(helpCategoriesIntro))
}

func printHelpAllFooter() {
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, applyPersonality(HelpFooter))
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, applyPersonality(helpAllFooter))
}

func printHelpFooter() {
	printHelpAllFooter()
	fmt.Fprintln(Stdout, applyPersonality(helpFooter))
}

// this is called when the Execute returns a flags.Error with ErrCommandRequired
func printShortHelp() {
	printHelpHeader()
	fmt.Fprintln(Stdout)
	maxLen := 0
	for _, categ := range HelpCategories {
		if l := utf8.RuneCountInString(categ.Label); l > maxLen {
			maxLen = l
		}
	}
	for _, categ := range HelpCategories {
		fmt.Fprintf(Stdout, "%*s: %s\n", maxLen+2, categ.Label, strings.Join(categ.Commands, ", "))
	}
	printHelpFooter()
}

// this is "bootsel help --all"
func printLongHelp(parser *flags.Parser) {
	printHelpHeader()
	maxLen := 0
	for _, categ := range HelpCategories {
		for _, command := range categ.Commands {
			if l := len(command); l > maxLen {
				maxLen = l
			}
		}
	}

	commands := parser.Commands()
	cmdLookup := make(map[string]*flags.Command, len(commands))
	for _, cmd := range commands {
		cmdLookup[cmd.Name] = cmd
	}

	for _, categ := range HelpCategories {
		fmt.Fprintln(Stdout)
		fmt.Fprintf(Stdout, "  %s (%s):\n", categ.Label, categ.Description)
		for _, name := range categ.Commands {
			cmd := cmdLookup[name]
			if cmd == nil {
				fmt.Fprintf(Stderr, "??? Cannot find command %q mentioned in help categories, please report!\n", name)
			} else {
				fmt.Fprintf(Stdout, "    %*s  %s\n", -maxLen, name, cmd.ShortDescription)
			}
		}
	}
	printHelpAllFooter()
}
