package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/slashdevops/hostid/switches"
)

// commonOptions are accepted by every subcommand, together with the
// switches of the flag registry.
type commonOptions struct {
	fs       *flag.FlagSet
	logLevel *string
	noColor  *bool
	json     *bool
}

func (a *app) newFlagSet(name string) (*flag.FlagSet, *commonOptions) {
	fs := flag.NewFlagSet(applicationName+" "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	opts := &commonOptions{
		fs:       fs,
		logLevel: fs.String("log-level", "warn", "Log level: debug, info, warn, error"),
		noColor:  fs.Bool("no-color", false, "Disable colored output"),
		json:     fs.Bool("json", false, "Output result as JSON"),
	}
	fs.String("config", "", "Config file (one 'flag value' pair per line)")

	a.registry.Bind(fs)

	return fs, opts
}

// ffOptions configures environment and config file parsing for a
// subcommand: HOSTID_DISABLE_MACHINE_ID=true is equivalent to
// --disable-machine-id.
func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(envPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

// switches freezes the parsed flag set. Call it after parsing.
func (o *commonOptions) switches() switches.Set {
	return switches.FromFlagSet(o.fs)
}

func (o *commonOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(*o.logLevel))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", *o.logLevel, err)
	}

	if *o.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
