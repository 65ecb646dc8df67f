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
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/canonical/go-flags"
	"golang.org/x/term"

	cmdpkg "github.com/canonical/bootsel/cmd"
	"github.com/canonical/bootsel/internals/config"
	"github.com/canonical/bootsel/internals/logger"
)

var (
	// Standard streams, redirected for testing.
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	// set to logger.Panicf in testing
	noticef = logger.Noticef
)

type options struct {
	Version func() `long:"version"`
}

var optionsData options

// ErrExtraArgs is returned if extra arguments to a command are found
var ErrExtraArgs = fmt.Errorf("too many arguments for command")

// CmdOptions exposes state to commands being built.
type CmdOptions struct {
	Parser *flags.Parser
	Config *config.Config
}

// CmdInfo holds information needed by the CLI to execute commands and
// populate entries in the help manual.
type CmdInfo struct {
	// Name of the command
	Name string

	// Summary is a single-line help string that will be displayed
	// in the full help manual (i.e. help --all)
	Summary string

	// Description contains exhaustive documentation about the command,
	// that will be reflected in the specific help manual for the
	// command.
	Description string

	// ArgsHelp (optional) maps option names ("--foo" or "-f") and
	// positional argument names ("<foo>") to their help strings.
	ArgsHelp map[string]string

	// New creates a new instance of the command struct containing an
	// Execute(args []string) implementation.
	New func(opts *CmdOptions) flags.Commander
}

// commands holds information about all commands.
var commands []*CmdInfo

// AddCommand replaces parser.addCommand() in a way that is compatible with
// re-constructing a pristine parser.
func AddCommand(info *CmdInfo) {
	commands = append(commands, info)
}

func lintDesc(cmdName, optName, desc, origDesc string) {
	if len(optName) == 0 {
		logger.Panicf("option on %q has no name", cmdName)
	}
	if len(origDesc) != 0 {
		logger.Panicf("description of %s's %q of %q set from tag", cmdName, optName, origDesc)
	}
	if len(desc) > 0 {
		// decode the first rune instead of converting all of desc into []rune
		r, _ := utf8.DecodeRuneInString(desc)
		// note IsLower != !IsUpper for runes with no upper/lower.
		if unicode.IsLower(r) && !strings.HasPrefix(desc, cmdName) {
			noticef("description of %s's %q is lowercase: %q", cmdName, optName, desc)
		}
	}
}

func lintArg(cmdName, optName, desc, origDesc string) {
	lintDesc(cmdName, optName, desc, origDesc)
	if len(optName) > 0 && optName[0] == '<' && optName[len(optName)-1] == '>' {
		return
	}
	noticef("argument %q's %q should begin with < and end with >", cmdName, optName)
}

// ParserOptions configures a fresh parser.
type ParserOptions struct {
	Config *config.Config
}

// Parser creates and populates a fresh parser.
// Since commands have local state a fresh parser is required to isolate tests
// from each other.
func Parser(opts *ParserOptions) *flags.Parser {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	optionsData.Version = func() {
		fmt.Fprintln(Stdout, cmdpkg.Version)
		panic(&exitStatus{0})
	}
	flagopts := flags.Options(flags.PassDoubleDash)
	parser := flags.NewParser(&optionsData, flagopts)
	parser.ShortDescription = "Boot menu for multi-boot systems"
	parser.LongDescription = applyPersonality(HelpHeader)
	// hide the unhelpful "[OPTIONS]" from help output
	parser.Usage = ""
	if version := parser.FindOptionByLongName("version"); version != nil {
		version.Description = "Print the version and exit"
		version.Hidden = true
	}
	// add --help like what go-flags would do for us, but hidden
	addHelp(parser)

	for _, c := range commands {
		obj := c.New(&CmdOptions{Parser: parser, Config: cfg})

		cmd, err := parser.AddCommand(c.Name, c.Summary, strings.TrimSpace(c.Description), obj)
		if err != nil {
			logger.Panicf("cannot add command %q: %v", c.Name, err)
		}

		hasArgsHelp := len(c.ArgsHelp) > 0
		for _, opt := range cmd.Options() {
			name := "--" + opt.LongName
			if opt.LongName == "" {
				name = "-" + string(opt.ShortName)
			}
			desc, ok := c.ArgsHelp[name]
			if hasArgsHelp && !ok {
				logger.Panicf("%s missing description for %s", c.Name, name)
			}
			lintDesc(c.Name, name, desc, opt.Description)
			if desc != "" {
				opt.Description = desc
			}
		}
		for _, arg := range cmd.Args() {
			desc, ok := c.ArgsHelp[arg.Name]
			if hasArgsHelp && !ok {
				logger.Panicf("%s missing description for %s", c.Name, arg.Name)
			}
			lintArg(c.Name, arg.Name, desc, arg.Description)
			arg.Description = desc
		}
	}
	return parser
}

var (
	isStdinTTY = term.IsTerminal(0)
	osExit     = os.Exit
)

// exitStatus can be used in panic(&exitStatus{code}) to cause the main
// function to exit with a given exit code, for the rare cases when you want
// to return an exit code other than 0 or 1, or when an error return is not
// possible.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("internal error: exitStatus{%d} being handled as normal error", e.code)
}

// Run parses the command line and runs the chosen command.
func Run() error {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(*exitStatus); ok {
				osExit(e.code)
			}
			panic(v)
		}
	}()

	logger.SetLogger(logger.New(os.Stderr, "[bootsel] "))

	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	parser := Parser(&ParserOptions{Config: cfg})
	xtra, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok {
			switch e.Type {
			case flags.ErrCommandRequired:
				printShortHelp()
				return nil
			case flags.ErrHelp:
				parser.WriteHelp(Stdout)
				return nil
			case flags.ErrUnknownCommand:
				sub := os.Args[1]
				sug := cmdpkg.ProgramName + " help"
				if len(xtra) > 0 {
					sub = xtra[0]
					if x := parser.Command.Active; x != nil && x.Name != "help" {
						sug = cmdpkg.ProgramName + " help " + x.Name
					}
				}
				return fmt.Errorf("unknown command %q, see '%s'.", sub, sug)
			}
		}
		return err
	}
	return nil
}
