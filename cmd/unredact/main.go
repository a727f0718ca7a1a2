// unredact analyses an ingested document for black-box redactions and
// reports, for each one, an estimate of the hidden character count, a
// predicted content type and a width-ranked candidate list.
//
// The input is the ingestion JSON payload (normalized text elements and
// drawing primitives per page), not a raw PDF; ingestion is a separate
// concern.
//
// Usage:
//
//	unredact -in ingested.json -dicts ./dicts [options]
//
// Required flags:
//
//	-in string     Path to the ingested document JSON
//	-dicts string  Directory of candidate dictionaries (*.txt, *.html)
//
// Output options:
//
//	-out string      Path to save the JSON report (default: stdout)
//	-overlay string  Path to save a review PDF with boxes and candidates
//
// Other options:
//
//	-config string     Path to a YAML configuration file
//	-workers int       Concurrent ranking workers
//	-deadline duration Wall-time cap for candidate ranking (e.g. 30s)
//
// Example:
//
//	unredact -in exhibit-12.json -dicts ./dicts -out report.json -overlay review.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	unredaction "github.com/moghammed/epstein-universal-unredaction"
	"github.com/moghammed/epstein-universal-unredaction/config"
	"github.com/moghammed/epstein-universal-unredaction/logging"
	"github.com/moghammed/epstein-universal-unredaction/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "unredact: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		inPath      = flag.String("in", "", "path to the ingested document JSON (required)")
		dictDir     = flag.String("dicts", "", "directory of candidate dictionaries (required unless set in -config)")
		outPath     = flag.String("out", "", "path to save the JSON report (default: stdout)")
		overlayPath = flag.String("overlay", "", "path to save a review PDF")
		configPath  = flag.String("config", "", "path to a YAML configuration file")
		workers     = flag.Int("workers", 0, "concurrent ranking workers (0: config or default)")
		deadline    = flag.Duration("deadline", 0, "wall-time cap for candidate ranking (0: none)")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		return fmt.Errorf("-in is required")
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	analysis := unredaction.Analyze(*inPath).Config(cfg).Logger(logger)
	if *dictDir != "" {
		analysis.Dictionaries(*dictDir)
	}
	if *workers > 0 {
		analysis.Workers(*workers)
	}
	if *deadline > 0 {
		analysis.Deadline(*deadline)
	}

	start := time.Now()
	rep, st, err := analysis.Run(context.Background())
	if err != nil {
		return err
	}
	logger.Info("analysis complete",
		zap.Int("pages", rep.Pages),
		zap.Int("redactions", len(rep.Redactions)),
		zap.Int("anomalies", len(rep.Anomalies)),
		zap.Duration("elapsed", time.Since(start)))

	data, err := rep.JSON()
	if err != nil {
		return err
	}
	if *outPath == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if *overlayPath != "" {
		f, err := os.Create(*overlayPath)
		if err != nil {
			return fmt.Errorf("create overlay: %w", err)
		}
		defer f.Close()
		if err := report.Overlay(st, f); err != nil {
			return err
		}
	}
	return nil
}
