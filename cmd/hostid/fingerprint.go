package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/slashdevops/hostid"
	"github.com/slashdevops/hostid/switches"
)

var errDisabled = errors.New("machine ID generation disabled by --" + switches.DisableMachineID)

type fingerprintOptions struct {
	cpu, motherboard, uuid, mac, disk, all, vm *bool

	format      *int
	salt        *string
	validate    *string
	diagnostics *bool
}

func (a *app) fingerprintCommand() *ffcli.Command {
	fs, opts := a.newFlagSet("fingerprint")

	fo := fingerprintOptions{
		cpu:         fs.Bool("cpu", false, "Include CPU identifier"),
		motherboard: fs.Bool("motherboard", false, "Include motherboard serial number"),
		uuid:        fs.Bool("uuid", false, "Include system UUID and OS install ID"),
		mac:         fs.Bool("mac", false, "Include network MAC addresses"),
		disk:        fs.Bool("disk", false, "Include disk serial numbers"),
		all:         fs.Bool("all", false, "Include all hardware identifiers"),
		vm:          fs.Bool("vm", false, "VM-friendly mode (CPU + UUID only)"),
		format:      fs.Int("format", 64, "Output length: 32, 64, 128 or 256 characters"),
		salt:        fs.String("salt", "", "Salt for application-specific IDs"),
		validate:    fs.String("validate", "", "Compare the given ID with this machine's"),
		diagnostics: fs.Bool("diagnostics", false, "Show which components were collected"),
	}

	return &ffcli.Command{
		Name:       "fingerprint",
		ShortUsage: "hostid fingerprint [--cpu] [--uuid] [--all|--vm] [--format N] [flags]",
		ShortHelp:  "Generate a hardware fingerprint",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			logger, err := opts.logger(a.stderr)
			if err != nil {
				return err
			}

			if opts.switches().Has(switches.DisableMachineID) {
				return errDisabled
			}

			f, err := fo.fingerprinter()
			if err != nil {
				return err
			}
			f.WithLogger(logger)

			if *fo.validate != "" {
				return a.validate(ctx, f, *fo.validate, *opts.json)
			}

			id, err := f.ID(ctx)
			if err != nil {
				if *fo.diagnostics {
					a.printDiagnostics(f.Diagnostics())
				}
				return fmt.Errorf("generating fingerprint: %w", err)
			}

			if *opts.json {
				out := map[string]any{
					"id":     id,
					"format": *fo.format,
					"length": len(id),
				}
				if *fo.diagnostics {
					out["diagnostics"] = diagnosticsJSON(f.Diagnostics())
				}
				return printJSON(a.stdout, out)
			}

			fmt.Fprintln(a.stdout, id)
			if *fo.diagnostics {
				a.printDiagnostics(f.Diagnostics())
			}

			return nil
		},
	}
}

func (fo fingerprintOptions) fingerprinter() (*hostid.Fingerprinter, error) {
	mode, err := parseFormatMode(*fo.format)
	if err != nil {
		return nil, err
	}

	f := hostid.New().WithFormat(mode)
	if *fo.salt != "" {
		f.WithSalt(*fo.salt)
	}

	switch {
	case *fo.vm:
		f.VMFriendly()
	case *fo.all:
		f.WithCPU().WithMotherboard().WithSystemUUID().WithMAC().WithDisk()
	default:
		if !*fo.cpu && !*fo.motherboard && !*fo.uuid && !*fo.mac && !*fo.disk {
			return nil, errors.New("no hardware identifiers selected; use --cpu, --uuid, --all or --vm")
		}
		if *fo.cpu {
			f.WithCPU()
		}
		if *fo.motherboard {
			f.WithMotherboard()
		}
		if *fo.uuid {
			f.WithSystemUUID()
		}
		if *fo.mac {
			f.WithMAC()
		}
		if *fo.disk {
			f.WithDisk()
		}
	}

	return f, nil
}

func parseFormatMode(format int) (hostid.FormatMode, error) {
	switch format {
	case 32:
		return hostid.Format32, nil
	case 64:
		return hostid.Format64, nil
	case 128:
		return hostid.Format128, nil
	case 256:
		return hostid.Format256, nil
	default:
		return 0, fmt.Errorf("unsupported format %d; valid values are 32, 64, 128, 256", format)
	}
}

func (a *app) validate(ctx context.Context, f *hostid.Fingerprinter, expected string, jsonOut bool) error {
	valid, err := f.Validate(ctx, expected)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	if jsonOut {
		if err := printJSON(a.stdout, map[string]any{"valid": valid, "expected_id": expected}); err != nil {
			return err
		}
	} else if valid {
		fmt.Fprintln(a.stdout, successMsg("valid: machine ID matches"))
	} else {
		fmt.Fprintln(a.stdout, errorMsg("invalid: machine ID does not match"))
	}

	if !valid {
		return errInvalid
	}

	return nil
}

func (a *app) printDiagnostics(diag *hostid.Diagnostics) {
	if diag == nil {
		fmt.Fprintln(a.stderr, mutedStyle.Render("no diagnostic information available"))
		return
	}

	pairs := []pair{{"Collected", strings.Join(diag.Collected, ", ")}}
	for _, component := range slices.Sorted(maps.Keys(diag.Errors)) {
		pairs = append(pairs, pair{component, diag.Errors[component].Error()})
	}

	fmt.Fprint(a.stderr, "\n"+boldStyle.Render("Diagnostics")+"\n"+keyValues("  ", pairs...))
}

func diagnosticsJSON(diag *hostid.Diagnostics) map[string]any {
	if diag == nil {
		return nil
	}

	out := map[string]any{"collected": diag.Collected}
	if len(diag.Errors) > 0 {
		errs := make(map[string]string, len(diag.Errors))
		for component, err := range diag.Errors {
			errs[component] = err.Error()
		}
		out["errors"] = errs
	}

	return out
}
