// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spmpl-pl/ztm/ztm/config"
	"github.com/spmpl-pl/ztm/ztm/dataset"
	"github.com/spmpl-pl/ztm/ztm/registry"
	"github.com/spmpl-pl/ztm/ztm/route"
	"github.com/spmpl-pl/ztm/ztm/source"
	"github.com/spmpl-pl/ztm/ztm/util/http2"
	"github.com/spmpl-pl/ztm/ztm/util/secret"
)

const (
	apiKeyVariable     = "ZTM_API"
	configPathVariable = "ZTM_CONFIG"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options holds every flag of every subcommand; each subcommand registers only the ones it uses.
type options struct {
	name     string
	id       string
	stop     string
	line     string
	brigade  string
	full     bool
	verbose  bool
	gtfs     string
	json     string
	readable bool
}

// app bundles the collaborators shared by all subcommands.
type app struct {
	out       io.Writer
	client    *source.Client
	cache     *dataset.Cache
	resolver  *registry.Resolver
	assembler *route.Assembler
	now       func() time.Time
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "ztm: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 1
	}

	opts := &options{}
	fs := flag.NewFlagSet("ztm "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.verbose, "v", false, "show DEBUG logging")
	cmd.flags(fs, opts)

	if err := fs.Parse(args[1:]); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 1
	}
	if opts.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	err := cmd.validate(opts)
	if err == nil {
		var a *app
		a, err = newApp(stdout)
		if err == nil {
			err = cmd.run(ctx, a, opts)
		}
	}

	if err != nil {
		report(stderr, cmd, err)
		return 1
	}
	return 0
}

func newApp(out io.Writer) (*app, error) {
	if err := secret.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	apikey, err := secret.FromEnvironment(apiKeyVariable)
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine the home directory: %w", err)
	}

	configPath := os.Getenv(configPathVariable)
	if configPath == "" {
		configPath = config.DefaultPath(home)
	}
	cfg, err := config.Load(configPath, home)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", "path", configPath, "base_url", cfg.BaseURL, "cache_dir", cfg.CacheDir)

	ids, err := datasetIDs(cfg.Datasets)
	if err != nil {
		return nil, &config.Error{Path: configPath, Err: err}
	}

	client := source.NewClient(cfg.BaseURL, apikey, ids, http2.NewClient(cfg.ConnectTimeout, cfg.ReadTimeout))
	cache := dataset.New(cfg.CacheDir, client)
	resolver := &registry.Resolver{Lookup: client, Stops: cache}

	return &app{
		out:       out,
		client:    client,
		cache:     cache,
		resolver:  resolver,
		assembler: &route.Assembler{Routes: cache, Dictionary: cache, Names: resolver},
		now:       time.Now,
	}, nil
}

func datasetIDs(overrides config.Datasets) (source.IDs, error) {
	ids := source.DefaultIDs()

	for _, o := range []struct {
		value string
		dst   *uuid.UUID
	}{
		{overrides.StopRegistry, &ids.StopRegistry},
		{overrides.NameLookup, &ids.NameLookup},
		{overrides.LinesAtStop, &ids.LinesAtStop},
		{overrides.Schedule, &ids.Schedule},
	} {
		if o.value == "" {
			continue
		}
		id, err := uuid.Parse(o.value)
		if err != nil {
			return ids, err
		}
		*o.dst = id
	}

	if overrides.Vehicles != "" {
		ids.Vehicles = overrides.Vehicles
	}
	return ids, nil
}

func report(w io.Writer, cmd *command, err error) {
	fmt.Fprintf(w, "ztm: %s\n", err)

	var usage registry.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w)
		cmd.printExamples(w)
	}

	var netErr *http2.NetworkError
	if errors.As(err, &netErr) {
		fmt.Fprintln(w, "ztm: the API is available only from Poland; check your network connection")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ztm <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-14s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The %s environment variable must hold the API key.\n", apiKeyVariable)
}
