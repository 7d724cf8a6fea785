package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/slashdevops/hostid/prefs"
)

type deviceIDResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (a *app) deviceIDCommand() *ffcli.Command {
	fs, opts := a.newFlagSet("device-id")
	raw := fs.Bool("raw", false, "Print the raw OS identifier instead of its obfuscated form")

	return &ffcli.Command{
		Name:       "device-id",
		ShortUsage: "hostid device-id [--raw] [--disable-machine-id] [--json]",
		ShortHelp:  "Print the deterministic device ID used for preference tracking",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			logger, err := opts.logger(a.stderr)
			if err != nil {
				return err
			}

			d := prefs.NewDeviceID(opts.switches(), nil, prefs.WithDeviceLogger(logger))

			id, status := d.MachineSpecificID(ctx)
			if !*raw {
				id = prefs.ObfuscateDeviceID(id)
			}

			res := deviceIDResult{ID: id, Status: status.String()}
			if *opts.json {
				return printJSON(a.stdout, res)
			}

			if status != prefs.StatusSuccess {
				fmt.Fprintln(a.stderr, warnMsg("device ID unavailable: %s", status))
				return nil
			}

			fmt.Fprintln(a.stdout, id)
			return nil
		},
	}
}
