package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"gopkg.in/yaml.v3"
)

// flagView is how a registry entry is listed.
type flagView struct {
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Platforms   []string `json:"platforms" yaml:"platforms"`
	CommandLine string   `json:"command_line,omitempty" yaml:"command_line,omitempty"`
	Enabled     bool     `json:"enabled" yaml:"enabled"`
}

func (a *app) flagsCommand() *ffcli.Command {
	fs, opts := a.newFlagSet("flags")
	all := fs.Bool("all", false, "List entries for every operating system")
	output := fs.String("output", "table", "Output format: table, json, yaml")

	return &ffcli.Command{
		Name:       "flags",
		ShortUsage: "hostid flags [--all] [--output table|json|yaml]",
		ShortHelp:  "List the switches that can be set on this system",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(_ context.Context, _ []string) error {
			if _, err := opts.logger(a.stderr); err != nil {
				return err
			}

			entries := a.registry.ForOS(runtime.GOOS)
			if *all {
				entries = a.registry.Entries()
			}

			sw := opts.switches()
			views := make([]flagView, 0, len(entries))
			for _, e := range entries {
				enabled := e.Enabled(sw)
				views = append(views, flagView{
					Name:        e.Name,
					Title:       e.Title,
					Description: e.Description,
					Platforms:   strings.Split(e.OS.String(), ","),
					CommandLine: e.CommandLine(enabled),
					Enabled:     enabled,
				})
			}

			format := *output
			if *opts.json {
				format = "json"
			}

			switch format {
			case "json":
				return printJSON(a.stdout, views)
			case "yaml":
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(views); err != nil {
					return fmt.Errorf("encoding YAML: %w", err)
				}
				return enc.Close()
			case "table":
				if len(views) == 0 {
					fmt.Fprintln(a.stderr, warnMsg("no switches available on %s", runtime.GOOS))
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{v.Name, v.Title, strings.Join(v.Platforms, ","), fmt.Sprint(v.Enabled)})
				}
				fmt.Fprintln(a.stdout, renderTable([]string{"NAME", "TITLE", "PLATFORMS", "ENABLED"}, rows))
				return nil
			default:
				return fmt.Errorf("unsupported --output %q; valid values are table, json, yaml", format)
			}
		},
	}
}
