package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/slashdevops/hostid/metrics"
)

// idResult is the JSON shape of "hostid id".
type idResult struct {
	HasID bool   `json:"has_id"`
	ID    string `json:"id"`
}

func (a *app) idCommand() *ffcli.Command {
	fs, opts := a.newFlagSet("id")

	return &ffcli.Command{
		Name:       "id",
		ShortUsage: "hostid id [--disable-machine-id] [--json]",
		ShortHelp:  "Print the machine ID reported with metrics",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			logger, err := opts.logger(a.stderr)
			if err != nil {
				return err
			}

			p := metrics.New(opts.switches(), nil, metrics.WithLogger(logger))

			res := idResult{HasID: p.HasID()}
			if res.HasID {
				res.ID = p.MachineID(ctx)
			}

			if *opts.json {
				return printJSON(a.stdout, res)
			}

			if res.ID == "" {
				fmt.Fprintln(a.stderr, warnMsg("machine ID unavailable"))
				return nil
			}

			fmt.Fprintln(a.stdout, res.ID)
			return nil
		},
	}
}
