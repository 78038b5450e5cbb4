// Command hdssqc runs the record QC pipeline over one surveillance
// extract and writes the report to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkanyama/hdssqc/internal/adapters/dataset"
	"github.com/mkanyama/hdssqc/internal/adapters/report"
	"github.com/mkanyama/hdssqc/internal/app"
	"github.com/mkanyama/hdssqc/internal/config"
	"github.com/mkanyama/hdssqc/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// A positional argument overrides the configured dataset path.
	input := cfg.Input
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	if input == "" {
		os.Stderr.WriteString("no dataset: pass a path or set HDSSQC_INPUT\n")
		return 2
	}

	table, err := dataset.Read(input)
	if err != nil {
		log.Error(ctx, "failed to read dataset",
			logger.String("input", input), logger.Error(err))
		return 1
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithMaxAge(cfg.MaxAgeYears),
		app.WithGrace(cfg.GraceYears),
		app.WithStudyPeriod(cfg.StudyBegin, cfg.StudyEnd),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithCountries(cfg.Countries),
		app.WithCentres(cfg.Centres),
		app.WithCauseCodes(cfg.CauseCodes),
	)

	rep, err := svc.Run(ctx, table)
	if err != nil {
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		return 1
	}

	if err := render(ctx, os.Stdout, rep, cfg.Compress, log); err != nil {
		log.Error(ctx, "failed to render report", logger.Error(err))
		return 1
	}
	return 0
}

// render writes the full report: run header, validation tallies, event
// distributions and the transition matrices.
func render(ctx context.Context, w *os.File, rep *app.Report, compress bool, log logger.Logger) error {
	fmt.Fprintf(w, "run %s: %d records, %d individuals, study %s to %s (%s)\n\n",
		rep.RunID, rep.Rows, rep.Individuals,
		rep.Period.Begin.Format("2006-01-02"), rep.Period.End.Format("2006-01-02"),
		rep.Duration.Round(time.Millisecond))

	matrix := rep.Validation
	if compress {
		matrix = matrix.Compress(ctx, log)
	}
	if err := report.WriteValidation(w, matrix); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := report.WriteFailingRows(w, matrix); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if err := report.WriteDistribution(w, "first events", rep.FirstEvents); err != nil {
		return err
	}
	if err := report.WriteDistribution(w, "last events", rep.LastEvents); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return report.WriteTransitions(w, rep.Transitions)
}
