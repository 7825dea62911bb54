// Command import analyses GeoJSON trail files and stores them, or prints the
// analysis without touching the database (--dry-run).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/config"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/export"
	"github.com/jengzang/trails-backend-go/internal/ingest"
	"github.com/jengzang/trails-backend-go/internal/logger"
	"github.com/jengzang/trails-backend-go/internal/repository"
	"github.com/jengzang/trails-backend-go/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dryRun bool
	file   string
	format export.Format
	cfg    *config.Config
}

func parseArgs(args []string) (*options, error) {
	fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
	fs.String("dir", "", "directory of .geojson trail files (TRAIL_FILES_DIR)")
	fs.String("db", "", "sqlite database path (DB_PATH)")
	fs.Int("workers", 0, "files analysed in parallel (IMPORT_WORKERS)")
	fs.Float64("segment-km", 0, "target segment length in km (SEGMENT_LENGTH_KM)")
	fs.String("log-level", "", "log level (LOG_LEVEL)")
	dryRun := fs.Bool("dry-run", false, "print the analysis instead of storing it")
	file := fs.String("file", "", "analyse a single file instead of a directory")
	format := fs.String("format", "json", "dry-run output: json, geojson or kml")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := config.NewViper()
	for key, flag := range map[string]string{
		"TRAIL_FILES_DIR":   "dir",
		"DB_PATH":           "db",
		"IMPORT_WORKERS":    "workers",
		"SEGMENT_LENGTH_KM": "segment-km",
		"LOG_LEVEL":         "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return nil, err
	}
	if f != export.FormatJSON && (!*dryRun || *file == "") {
		return nil, errors.New("--format geojson|kml needs --dry-run and --file")
	}

	return &options{dryRun: *dryRun, file: *file, format: f, cfg: cfg}, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return dryRun(opts, stdout)
	}

	log, err := logger.New(opts.cfg.AppEnv, opts.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return importAll(ctx, opts, log, stdout)
}

func dryRun(opts *options, stdout io.Writer) error {
	files := []string{opts.file}
	if opts.file == "" {
		var err error
		if files, err = service.ListTrailFiles(opts.cfg.TrailFilesDir); err != nil {
			return err
		}
	}

	analysisOpts := analysis.Options{SegmentLengthKm: opts.cfg.SegmentLengthKm}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	for _, path := range files {
		doc, err := ingest.ParseFile(path)
		if err != nil {
			return err
		}
		report := analysis.Analyze(doc.Name, doc.Coordinates, analysisOpts)

		if opts.format != export.FormatJSON {
			return export.Write(stdout, opts.format, report.Name, report.Points(), report.Segments)
		}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func importAll(ctx context.Context, opts *options, log *zap.Logger, stdout io.Writer) error {
	db, err := database.Open(database.Config{Path: opts.cfg.DBPath}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	analysisOpts := analysis.Options{SegmentLengthKm: opts.cfg.SegmentLengthKm}
	trailRepo := repository.NewTrailRepository(db)
	trails := service.NewTrailService(trailRepo, analysisOpts, log)
	imports := service.NewImportService(trails, trailRepo, repository.NewImportJobRepository(db), opts.cfg.ImportWorkers, log)

	if opts.file != "" {
		doc, err := ingest.ParseFile(opts.file)
		if err != nil {
			return err
		}
		detail, err := trails.Store(ctx, analysis.Analyze(doc.Name, doc.Coordinates, analysisOpts), filepath.Base(opts.file))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added trail: %s, Length: %.2f km\n", detail.Name, detail.LengthKm)
		return nil
	}

	job, err := imports.Run(ctx, opts.cfg.TrailFilesDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Import %s %s: %d imported, %d skipped, %d failed of %d files\n",
		job.ID, job.Status, job.ImportedFiles, job.SkippedFiles, job.FailedFiles, job.TotalFiles)
	return nil
}
