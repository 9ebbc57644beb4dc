// Package cli implements the jype command line: parsing type strings,
// checking assignability, an interactive REPL and snapshot management.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/alecthomas/kong"
	"github.com/funvibe/jype/internal/config"
)

// Version is set at build time with -ldflags "-X github.com/funvibe/jype/pkg/cli.Version=...".
var Version = "dev"

// CLI is the kong grammar of the jype command.
type CLI struct {
	Globals

	Parse    ParseCmd    `cmd:"" help:"Parse type strings and print their canonical form."`
	Check    CheckCmd    `cmd:"" help:"Check whether CANDIDATE is assignable to TARGET (exit 1 if not)."`
	Flat     FlatCmd     `cmd:"" help:"Build a type from a pre-order list of type names."`
	Repl     ReplCmd     `cmd:"" help:"Start an interactive session."`
	Snapshot SnapshotCmd `cmd:"" help:"Manage stored type snapshots."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

// Globals are the flags shared by every command.
type Globals struct {
	Config      string   `help:"Path to jype.yaml (default: search upwards from the working directory)." type:"path"`
	Proto       []string `help:"Load messages and enums from a .proto file." type:"path"`
	ProtoPath   []string `help:"Import path for --proto files." name:"proto-path" type:"path"`
	Go          []string `help:"Load named types from Go packages matching the pattern." name:"go"`
	DB          string   `help:"Snapshot database." name:"db" default:"jype.db" type:"path"`
	UseSnapshot string   `help:"Load user types from a stored snapshot instead of jype.yaml." name:"use-snapshot" placeholder:"ID"`
	NoColor     bool     `help:"Disable colored output." name:"no-color"`
	Verbose     bool     `help:"Log registry loading to stderr." short:"v"`
}

// Env carries the output streams and shared state into command Run methods.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *log.Logger
	Color  bool

	ctx     context.Context
	globals *Globals
	loaded  *loadedTypes
}

// errNotAssignable makes `check` exit with status 1 without an error message.
var errNotAssignable = errors.New("not assignable")

// Run parses args and executes the selected command. It returns the
// process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var c CLI
	exitCode := -1
	parser, err := kong.New(&c,
		kong.Name("jype"),
		kong.Description("Nominal and generic type descriptors: parse, print and check assignability."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "jype: %s\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help was handled by kong
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	env := &Env{
		Stdout:  stdout,
		Stderr:  stderr,
		Log:     log.New(io.Discard, "", 0),
		Color:   colorEnabled(c.NoColor, stdout),
		ctx:     ctx,
		globals: &c.Globals,
	}
	if c.Verbose {
		env.Log = log.New(stderr, "jype: ", 0)
	}
	if config.IsTestMode {
		env.Color = false
	}

	if err := kctx.Run(env); err != nil {
		if errors.Is(err, errNotAssignable) {
			return 1
		}
		parser.Errorf("%s", err)
		return 1
	}
	return 0
}

type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	fmt.Fprintf(env.Stdout, "jype %s\n", Version)
	return nil
}
