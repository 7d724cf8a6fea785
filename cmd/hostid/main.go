package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/slashdevops/hostid/flags"
)

const (
	applicationName = "hostid"
	envPrefix       = "HOSTID"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errInvalid):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", applicationName, err)
		os.Exit(1)
	}
}

// errInvalid reports a failed validation; the result was already printed.
var errInvalid = errors.New("machine id does not match")

// app carries what every subcommand shares.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	registry *flags.Registry
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr, registry: flags.Default()}

	rootFS := flag.NewFlagSet(applicationName, flag.ContinueOnError)
	rootFS.SetOutput(stderr)

	root := &ffcli.Command{
		Name:       applicationName,
		ShortUsage: "hostid <subcommand> [flags]",
		ShortHelp:  "Machine identifiers for metrics and preference tracking",
		FlagSet:    rootFS,
		Subcommands: []*ffcli.Command{
			a.idCommand(),
			a.deviceIDCommand(),
			a.fingerprintCommand(),
			a.flagsCommand(),
			a.versionCommand(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	err := root.ParseAndRun(ctx, args)
	if errors.Is(err, flag.ErrHelp) && len(args) == 0 {
		fmt.Fprintln(stderr, ffcli.DefaultUsageFunc(root))
	}

	return err
}
