package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/slashdevops/hostid/internal/version"
)

type versionResult struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date,omitempty"`
	BuildUser string `json:"build_user,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	GitBranch string `json:"git_branch,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

func (a *app) versionCommand() *ffcli.Command {
	fs, opts := a.newFlagSet("version")
	long := fs.Bool("long", false, "Show detailed build information")

	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "hostid version [--long] [--json]",
		ShortHelp:  "Print version information",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(context.Context, []string) error {
			if _, err := opts.logger(a.stderr); err != nil {
				return err
			}

			if *opts.json {
				res := versionResult{Version: version.Short()}
				if *long {
					res.BuildDate = version.BuildDate
					res.BuildUser = version.BuildUser
					res.GitCommit = version.GitCommit
					res.GitBranch = version.GitBranch
					res.GoVersion = version.GoVersion
					res.Platform = version.GoVersionOS + "/" + version.GoVersionArch
				}
				return printJSON(a.stdout, res)
			}

			if *long {
				fmt.Fprintln(a.stdout, version.Long(applicationName))
				return nil
			}

			fmt.Fprintf(a.stdout, "%s version: %s\n", applicationName, version.Short())
			return nil
		},
	}
}
