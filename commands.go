package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/curvelab/arclength/api"
	"github.com/curvelab/arclength/internal/curve/pipeline"
	"github.com/curvelab/arclength/internal/db"
	"github.com/curvelab/arclength/internal/geom"
	"github.com/curvelab/arclength/internal/overlay"
)

func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "tuning config file (JSON)")
	scale := fs.Float64("scale", 0, "calibration scale (units per pixel); overrides config")
	scaleErr := fs.Float64("scale-err", 0, "absolute uncertainty of the scale")
	unit := fs.String("unit", "", "real-world unit of the scale (px, mm, cm, m, in, ft)")
	plotPath := fs.String("plot", "", "write a PNG overlay of the analysis to this path")
	jsonOut := fs.Bool("json", false, "print the full result as JSON instead of a summary line")
	dbPath := fs.String("db", "", "persist the result to this SQLite database")
	migrationsDir := fs.String("migrations", "migrations", "schema migrations directory")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one CSV file, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	opts, err := loadOptions(*configPath, *unit, *scale, *scaleErr)
	if err != nil {
		return err
	}

	cloud, err := geom.ReadPointCloudCSV(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, err := pipeline.Run(ctx, cloud, opts)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.Result); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s: %.3f %s ± %.3f (quality %s, %d segments)\n",
			filepath.Base(path), out.Result.Length, out.Result.Unit,
			out.Result.Uncertainty, out.Result.Quality, len(out.Result.Pixels.Segments))
		for _, w := range out.Result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}

	if *plotPath != "" {
		if err := overlay.Render(*plotPath, cloud, out.Trace, out.Model); err != nil {
			return fmt.Errorf("failed to render overlay: %w", err)
		}
		log.Printf("wrote overlay to %s", *plotPath)
	}

	if *dbPath != "" {
		database, err := db.NewDB(*dbPath, *migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		rec, err := db.NewAnalysisRecord(path, out.Result, opts)
		if err != nil {
			return err
		}
		if err := db.NewResultStore(database).InsertResult(rec); err != nil {
			return fmt.Errorf("failed to persist result: %w", err)
		}
		log.Printf("stored result %s", rec.ResultID)
	}
	return nil
}

func runBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	configPath := fs.String("config", "", "tuning config file (JSON)")
	scale := fs.Float64("scale", 0, "calibration scale (units per pixel); overrides config")
	scaleErr := fs.Float64("scale-err", 0, "absolute uncertainty of the scale")
	unit := fs.String("unit", "", "real-world unit of the scale (px, mm, cm, m, in, ft)")
	workers := fs.Int("workers", 4, "number of concurrent analyses")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("expected at least one CSV file")
	}

	opts, err := loadOptions(*configPath, *unit, *scale, *scaleErr)
	if err != nil {
		return err
	}

	tasks := make([]pipeline.Task, 0, fs.NArg())
	for _, path := range fs.Args() {
		cloud, err := geom.ReadPointCloudCSV(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		tasks = append(tasks, pipeline.Task{Name: path, Cloud: cloud, Opts: opts})
	}

	failures := 0
	for _, res := range pipeline.RunBatch(ctx, tasks, *workers) {
		if res.Err != nil {
			failures++
			fmt.Printf("%s: error: %v\n", filepath.Base(res.Task.Name), res.Err)
			continue
		}
		fmt.Printf("%s: %.3f %s ± %.3f (quality %s)\n",
			filepath.Base(res.Task.Name), res.Output.Result.Length, res.Output.Result.Unit,
			res.Output.Result.Uncertainty, res.Output.Result.Quality)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d analyses failed", failures, len(tasks))
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", ":8080", "HTTP listen address")
	configPath := fs.String("config", "", "tuning config file (JSON)")
	dbPath := fs.String("db", "results.db", "SQLite database for stored results (empty disables persistence)")
	migrationsDir := fs.String("migrations", "migrations", "schema migrations directory")
	fs.Parse(args)

	opts, err := loadOptions(*configPath, "", 0, 0)
	if err != nil {
		return err
	}

	var store *db.ResultStore
	if *dbPath != "" {
		database, err := db.NewDB(*dbPath, *migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		store = db.NewResultStore(database)
	}

	return api.NewServer(store, opts).Serve(ctx, *listen)
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "results.db", "SQLite database path")
	migrationsDir := fs.String("migrations", "migrations", "schema migrations directory")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("expected a migrate action: up, down, version or force <v>")
	}

	database, err := db.OpenDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	switch action := fs.Arg(0); action {
	case "up":
		return database.MigrateUp(*migrationsDir)
	case "down":
		return database.MigrateDown(*migrationsDir)
	case "version":
		v, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%v)\n", v, dirty)
		return nil
	case "force":
		if fs.NArg() != 2 {
			return fmt.Errorf("force requires a version argument")
		}
		v, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", fs.Arg(1), err)
		}
		return database.MigrateForce(*migrationsDir, v)
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
}
