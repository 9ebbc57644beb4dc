package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/jype/internal/config"
	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether ANSI colors should be written to w.
func colorEnabled(disabled bool, w io.Writer) bool {
	if disabled {
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv(config.NoColorEnvVar); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

const (
	fgRed    = 31
	fgGreen  = 32
	fgYellow = 33
	fgCyan   = 36
)

func (env *Env) ansiFg(colorCode int, s string) string {
	if !env.Color {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", colorCode, s)
}

func (env *Env) dim(s string) string {
	if !env.Color {
		return s
	}
	return "\033[2m" + s + "\033[22m"
}

func (env *Env) red(s string) string    { return env.ansiFg(fgRed, s) }
func (env *Env) green(s string) string  { return env.ansiFg(fgGreen, s) }
func (env *Env) yellow(s string) string { return env.ansiFg(fgYellow, s) }
func (env *Env) cyan(s string) string   { return env.ansiFg(fgCyan, s) }

// verdict renders an assignability result.
func (env *Env) verdict(ok bool) string {
	if ok {
		return env.green("true")
	}
	return env.red("false")
}
