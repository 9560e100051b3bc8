// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/spmpl-pl/ztm/ztm/fact"
	"github.com/spmpl-pl/ztm/ztm/registry"
	"github.com/spmpl-pl/ztm/ztm/render"
	"github.com/spmpl-pl/ztm/ztm/source"
	"github.com/spmpl-pl/ztm/ztm/timetable"
)

type command struct {
	name     string
	summary  string
	examples []string
	flags    func(*flag.FlagSet, *options)
	validate func(*options) error
	run      func(context.Context, *app, *options) error
}

func (c *command) printExamples(w io.Writer) {
	fmt.Fprintln(w, "Examples:")
	for _, e := range c.examples {
		fmt.Fprintf(w, "  - ztm %s %s\n", c.name, e)
	}
}

var commands = []*command{
	{
		name:     "get-stop",
		summary:  "list physical stops of a stop group",
		examples: []string{`-n "Jana Kazimierza"`, `-i 7006`},
		flags:    groupFlags,
		validate: validateGroup,
		run:      runGetStop,
	},
	{
		name:     "get-lines",
		summary:  "list lines calling at the stops of a stop group",
		examples: []string{`-n "Okopowa"`, `-i 5205 -s 01`, `-n "Metro Politechnika" -s 01`},
		flags: func(fs *flag.FlagSet, o *options) {
			groupFlags(fs, o)
			fs.StringVar(&o.stop, "s", "", "stop ID within the group (e.g. 01)")
		},
		validate: validateGroup,
		run:      runGetLines,
	},
	{
		name:     "get-schedule",
		summary:  "print the timetable of a line at a stop",
		examples: []string{`-i 5205 -s 01 -l 255 -f`, `-n "Jana Kazimierza" -s 01 -l 255`},
		flags: func(fs *flag.FlagSet, o *options) {
			groupFlags(fs, o)
			fs.StringVar(&o.stop, "s", "", "stop ID within the group (e.g. 01)")
			fs.StringVar(&o.line, "l", "", "line number")
			fs.BoolVar(&o.full, "f", false, "print directions and brigades of every departure")
		},
		validate: func(o *options) error {
			if err := validateGroup(o); err != nil {
				return err
			}
			return require(o.stop, "-s", o.line, "-l")
		},
		run: runGetSchedule,
	},
	{
		name:     "get-route",
		summary:  "print the itineraries of a line",
		examples: []string{`-l 255`, `-l 255 -f`},
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.line, "l", "", "line number")
			fs.BoolVar(&o.full, "f", false, "print all route variants, not only primary routes and detours")
		},
		validate: func(o *options) error { return require(o.line, "-l") },
		run:      runGetRoute,
	},
	{
		name:     "get-gps-tram",
		summary:  "print live positions of trams of a line",
		examples: []string{`-l 7`, `-l 17 -b 5 -gtfs trams.pb`},
		flags:    vehicleFlags,
		validate: func(o *options) error { return require(o.line, "-l") },
		run:      vehicleRunner(source.Tram),
	},
	{
		name:     "get-gps-bus",
		summary:  "print live positions of buses of a line",
		examples: []string{`-l 523`, `-l 523 -json buses.json`},
		flags:    vehicleFlags,
		validate: func(o *options) error { return require(o.line, "-l") },
		run:      vehicleRunner(source.Bus),
	},
}

func findCommand(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}

func groupFlags(fs *flag.FlagSet, o *options) {
	fs.StringVar(&o.name, "n", "", "stop group name")
	fs.StringVar(&o.id, "i", "", "stop group ID")
}

func vehicleFlags(fs *flag.FlagSet, o *options) {
	fs.StringVar(&o.line, "l", "", "line number")
	fs.StringVar(&o.brigade, "b", "", "only show the vehicle running this brigade")
	fs.StringVar(&o.gtfs, "gtfs", "", "also write positions as a GTFS-Realtime feed to this path")
	fs.StringVar(&o.json, "json", "", "also write positions as JSON to this path")
	fs.BoolVar(&o.readable, "readable", false, "write the GTFS-Realtime feed in human-readable format")
}

func validateGroup(o *options) error {
	return registry.Query{Name: o.name, ID: o.id}.Validate()
}

// require takes value-flag pairs and fails on the first empty value.
func require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == "" {
			return registry.UsageError(fmt.Sprintf("missing required flag %s", pairs[i+1]))
		}
	}
	return nil
}

func runGetStop(ctx context.Context, a *app, o *options) error {
	groups, err := a.resolver.Resolve(ctx, registry.Query{Name: o.name, ID: o.id})
	if err != nil {
		return err
	}

	for _, g := range groups {
		stops, err := a.resolver.ResolveGroupToStops(ctx, g.ID)
		if err != nil {
			return err
		}
		render.Stops(a.out, g, stops)
	}
	return nil
}

func runGetLines(ctx context.Context, a *app, o *options) error {
	groups, err := a.resolver.Resolve(ctx, registry.Query{Name: o.name, ID: o.id})
	if err != nil {
		return err
	}

	for _, g := range groups {
		var stops []registry.StopRecord
		if o.stop != "" {
			stops = []registry.StopRecord{{StopID: o.stop, Direction: "N/A"}}
		} else if stops, err = a.resolver.ResolveGroupToStops(ctx, g.ID); err != nil {
			return err
		}

		render.GroupHeader(a.out, g)
		fmt.Fprintln(a.out)
		for _, s := range stops {
			records, err := a.client.FetchLines(ctx, g.ID, s.StopID)
			if err != nil {
				return err
			}
			render.Lines(a.out, s.StopID, s.Direction, timetable.Lines(records))
		}
	}
	return nil
}

func runGetSchedule(ctx context.Context, a *app, o *options) error {
	groups, err := a.resolver.Resolve(ctx, registry.Query{Name: o.name, ID: o.id})
	if err != nil {
		return err
	}

	for _, g := range groups {
		records, err := a.client.FetchSchedule(ctx, g.ID, o.stop, o.line)
		if err != nil {
			return err
		}

		render.ScheduleHeader(a.out, o.line, g)
		deps := timetable.Departures(records)
		switch {
		case len(deps) == 0:
			render.NoResults(a.out)
		case o.full:
			if err := render.FullSchedule(a.out, deps); err != nil {
				return err
			}
		default:
			rows, err := timetable.Hourly(deps)
			if err != nil {
				return err
			}
			render.HourlySchedule(a.out, rows)
		}
	}
	return nil
}

func runGetRoute(ctx context.Context, a *app, o *options) error {
	r, err := a.assembler.Assemble(ctx, o.line, o.full)
	if err != nil {
		return err
	}
	render.Route(a.out, r, o.full)
	return nil
}

func vehicleRunner(kind source.VehicleKind) func(context.Context, *app, *options) error {
	return func(ctx context.Context, a *app, o *options) error {
		vehicles, err := a.client.FetchVehicles(ctx, kind, o.line, o.brigade)
		if err != nil {
			return err
		}
		render.Vehicles(a.out, vehicles)

		if o.gtfs == "" && o.json == "" {
			return nil
		}

		facts := fact.FromVehicles(kind, o.line, vehicles, a.now())
		if o.gtfs != "" {
			slog.Debug("Dumping GTFS-Realtime", "path", o.gtfs)
			if err := facts.DumpGTFSFile(o.gtfs, o.readable); err != nil {
				return fmt.Errorf("%s: %w", o.gtfs, err)
			}
		}
		if o.json != "" {
			slog.Debug("Dumping JSON", "path", o.json)
			if err := facts.DumpJSONFile(o.json, fact.HumanReadable); err != nil {
				return fmt.Errorf("%s: %w", o.json, err)
			}
		}
		return nil
	}
}
