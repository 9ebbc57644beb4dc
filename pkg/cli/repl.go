package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/funvibe/jype/internal/typesystem"
	"github.com/peterh/liner"
)

const (
	historyFile = ".jype_history"
	promptMain  = "jype> "
	replHelp    = `Enter a type to print its canonical form, or TARGET <- CANDIDATE to check assignability.
Commands:
  :types    list types declared outside the prelude
  :aliases  list aliases
  :sources  list loaded type sources
  :help     show this help
  :quit     exit`
)

type ReplCmd struct {
	NoHistory bool `help:"Do not read or write the history file." name:"no-history"`
}

func (c *ReplCmd) Run(env *Env) error {
	lt, err := env.types()
	if err != nil {
		return err
	}
	session := &replSession{env: env, types: lt, parser: typesystem.NewParser(lt.registry)}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if !c.NoHistory {
		if home, err := os.UserHomeDir(); err == nil {
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
		}
	}

	fmt.Fprintln(env.Stdout, env.dim("jype "+Version+", :help for help"))
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(env.Stdout)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		out, quit, err := session.eval(line)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.Stderr, env.red(err.Error()))
		} else if out != "" {
			fmt.Fprintln(env.Stdout, out)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}

// replSession evaluates REPL input lines against a loaded registry.
type replSession struct {
	env    *Env
	types  *loadedTypes
	parser *typesystem.Parser
}

// eval handles one input line. quit is true for :quit.
func (s *replSession) eval(line string) (out string, quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, nil
	}

	if strings.HasPrefix(line, ":") {
		switch strings.ToLower(line) {
		case ":quit", ":q", ":exit":
			return "", true, nil
		case ":help":
			return replHelp, false, nil
		case ":types":
			return s.listTypes(), false, nil
		case ":aliases":
			return s.listAliases(), false, nil
		case ":sources":
			if len(s.types.sources) == 0 {
				return s.env.dim("prelude only"), false, nil
			}
			return strings.Join(s.types.sources, "\n"), false, nil
		default:
			return "", false, fmt.Errorf("unknown command %s. Type :help for help", line)
		}
	}

	if target, candidate, ok := strings.Cut(line, "<-"); ok {
		res, err := checkAssignable(s.parser, strings.TrimSpace(target), strings.TrimSpace(candidate))
		if err != nil {
			return "", false, err
		}
		return s.env.verdict(res), false, nil
	}

	d, err := s.parser.Parse(line)
	if err != nil {
		return "", false, err
	}
	return describe(s.env, d), false, nil
}

func (s *replSession) listTypes() string {
	syms := s.types.table.Types()
	if len(syms) == 0 {
		return s.env.dim("no user types")
	}
	var b strings.Builder
	for i, sym := range syms {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.env.cyan(sym.Name()))
		if sym.Arity() > 0 {
			fmt.Fprintf(&b, "/%d", sym.Arity())
		}
		var supers []string
		for _, sup := range sym.Supertypes() {
			supers = append(supers, sup.Name())
		}
		if len(supers) > 0 {
			b.WriteString(s.env.dim(" <: " + strings.Join(supers, ", ")))
		}
	}
	return b.String()
}

func (s *replSession) listAliases() string {
	aliases := s.types.table.Aliases()
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s = %s", s.env.yellow(name), aliases[name])
	}
	return b.String()
}
