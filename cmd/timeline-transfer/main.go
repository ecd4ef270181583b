// timeline-transfer copies the full dataset (activities and categories)
// between two configured backends, e.g. from local JSON files to a Google
// spreadsheet or into a SQLite database. The destination tables are
// overwritten wholesale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"timeline/internal/backend"
	"timeline/internal/cli"
	"timeline/internal/core"
	"timeline/internal/tables"
)

func main() {
	from := flag.String("from", "", "source backend type (local, sheets, sqlite)")
	to := flag.String("to", "", "destination backend type (local, sheets, sqlite)")
	fromDir := flag.String("from-dir", "", "data directory for a local source (overrides DATA_DIRECTORY)")
	toDir := flag.String("to-dir", "", "data directory for a local destination (overrides DATA_DIRECTORY)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall transfer timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "usage: timeline-transfer -from <backend> -to <backend>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *from == *to && *fromDir == *toDir {
		logger.Error("Source and destination backends are identical", "backend", *from)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	factory := backend.NewFactory(logger)

	srcCfg := cli.BackendConfig(cfg)
	srcCfg.Type = backend.BackendType(*from)
	if *fromDir != "" {
		srcCfg.DataDirectory = *fromDir
	}
	src, err := factory.CreateBackend(ctx, srcCfg)
	if err != nil {
		logger.Error("Failed to initialize source backend", "error", err, "backend", *from)
		os.Exit(1)
	}
	defer cleanup(src, logger)

	dstCfg := cli.BackendConfig(cfg)
	dstCfg.Type = backend.BackendType(*to)
	if *toDir != "" {
		dstCfg.DataDirectory = *toDir
	}
	dst, err := factory.CreateBackend(ctx, dstCfg)
	if err != nil {
		logger.Error("Failed to initialize destination backend", "error", err, "backend", *to)
		os.Exit(1)
	}
	defer cleanup(dst, logger)

	var (
		load tables.ActivityLoad
		cats *core.CategorySet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		load, err = src.Backend.LoadActivities(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = src.Backend.LoadCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to read source backend", "error", err, "backend", *from)
		os.Exit(1)
	}

	logger.Info("Source dataset loaded",
		"activities", len(load.Activities),
		"skipped", len(load.Skipped),
		"categories", cats.Len())
	for _, row := range load.Skipped {
		logger.Warn("Skipping unreadable source row", "raw", row.Raw, "reason", row.Reason)
	}

	// Categories first so activity category references land on a populated
	// table.
	if err := dst.Backend.SaveCategories(ctx, cats); err != nil {
		logger.Error("Failed to write categories", "error", err, "backend", *to)
		os.Exit(1)
	}
	if err := dst.Backend.SaveActivities(ctx, load.Activities); err != nil {
		logger.Error("Failed to write activities", "error", err, "backend", *to)
		os.Exit(1)
	}

	logger.Info("Transfer complete",
		"from", *from,
		"to", *to,
		"activities", len(load.Activities),
		"categories", cats.Len())
}

func cleanup(res *backend.BackendResult, logger *slog.Logger) {
	if res != nil && res.Cleanup != nil {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}
}
