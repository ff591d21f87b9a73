// Command arclength estimates the real-world length of a curve captured
// as a noisy 2D point cloud: order the points, segment, fit, integrate
// and calibrate.
//
// Usage:
//
//	arclength analyze [flags] <points.csv>
//	arclength batch   [flags] <points.csv> [<points.csv> ...]
//	arclength serve   [flags]
//	arclength migrate <up|down|version> [flags]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/curvelab/arclength/internal/config"
	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/units"
	"github.com/curvelab/arclength/internal/version"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "analyze":
		err = runAnalyze(ctx, flag.Args()[1:])
	case "batch":
		err = runBatch(ctx, flag.Args()[1:])
	case "serve":
		err = runServe(ctx, flag.Args()[1:])
	case "migrate":
		err = runMigrate(flag.Args()[1:])
	case "version":
		fmt.Printf("arclength %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	default:
		log.Printf("unknown command %q", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  analyze   estimate curve length from a CSV point cloud
  batch     analyze several CSV point clouds concurrently
  serve     run the HTTP analysis server
  migrate   manage the results database schema
  version   print build information

Run "%s <command> -h" for command flags.
`, os.Args[0], os.Args[0])
}

// loadOptions builds the effective pipeline options from the defaults,
// an optional tuning file and the calibration flags.
func loadOptions(configPath, unit string, scale, scaleErr float64) (curve.Options, error) {
	opts := curve.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = config.LoadOptions(configPath)
		if err != nil {
			return curve.Options{}, err
		}
	}
	if scale != 0 {
		opts.Scale = scale
	}
	if scaleErr != 0 {
		opts.ScaleUncertainty = scaleErr
	}
	if unit != "" {
		if !units.IsValid(unit) {
			return curve.Options{}, fmt.Errorf("invalid unit %q (valid: %s)", unit, units.GetValidUnitsString())
		}
		opts.Unit = unit
	}
	return opts, opts.Validate()
}
