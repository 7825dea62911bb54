package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/ingest"
	"github.com/jengzang/trails-backend-go/internal/models"
	"github.com/jengzang/trails-backend-go/internal/repository"
)

// TrailFileExt is the extension of importable trail files
const TrailFileExt = ".geojson"

type importOutcome int

const (
	outcomeImported importOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// ImportService imports directories of trail files in the background
type ImportService struct {
	trails    *TrailService
	trailRepo *repository.TrailRepository
	jobRepo   *repository.ImportJobRepository
	workers   int
	log       *zap.Logger

	running sync.WaitGroup
}

// NewImportService creates a new import service. workers bounds the number of
// files analysed at once.
func NewImportService(
	trails *TrailService,
	trailRepo *repository.TrailRepository,
	jobRepo *repository.ImportJobRepository,
	workers int,
	log *zap.Logger,
) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{
		trails:    trails,
		trailRepo: trailRepo,
		jobRepo:   jobRepo,
		workers:   workers,
		log:       log.Named("import"),
	}
}

// ListTrailFiles returns the trail files directly inside dir, sorted by name
func ListTrailFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read trail directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), TrailFileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run imports every trail file in dir and returns the finished job
func (s *ImportService) Run(ctx context.Context, dir string) (*models.ImportJob, error) {
	job, files, err := s.prepare(ctx, dir)
	if err != nil {
		return job, err
	}

	s.execute(ctx, job, files)
	return s.Get(ctx, job.ID)
}

// Start creates an import job for dir and processes it in the background.
// The job outlives ctx's cancellation; use Wait to drain running jobs.
func (s *ImportService) Start(ctx context.Context, dir string) (*models.ImportJob, error) {
	job, files, err := s.prepare(ctx, dir)
	if err != nil {
		return job, err
	}

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		s.execute(context.WithoutCancel(ctx), job, files)
	}()

	return job, nil
}

// Wait blocks until all background jobs have finished
func (s *ImportService) Wait() {
	s.running.Wait()
}

// Get returns the progress of an import job
func (s *ImportService) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, err
}

// prepare records a new job and lists its files. A directory that cannot be
// read fails the job immediately.
func (s *ImportService) prepare(ctx context.Context, dir string) (*models.ImportJob, []string, error) {
	job := &models.ImportJob{
		ID:        uuid.New().String(),
		SourceDir: dir,
		Status:    models.ImportStatusPending,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, nil, err
	}

	files, err := ListTrailFiles(dir)
	if err != nil {
		job.Status = models.ImportStatusFailed
		job.ErrorMessage = err.Error()
		if markErr := s.jobRepo.MarkFailed(ctx, job.ID, err.Error(), time.Now().Unix()); markErr != nil {
			s.log.Error("failed to record job failure", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		return job, nil, err
	}

	job.TotalFiles = len(files)
	return job, files, nil
}

func (s *ImportService) execute(ctx context.Context, job *models.ImportJob, files []string) {
	log := s.log.With(zap.String("job_id", job.ID))
	start := time.Now()

	if err := s.jobRepo.MarkRunning(ctx, job.ID, len(files), start.Unix()); err != nil {
		log.Error("failed to start import job", zap.Error(err))
		return
	}
	log.Info("import started", zap.String("dir", job.SourceDir), zap.Int("files", len(files)))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range files {
		g.Go(func() error {
			outcome, err := s.importFile(gctx, path)
			if err != nil {
				log.Warn("trail file not imported", zap.String("file", filepath.Base(path)), zap.Error(err))
			}

			mu.Lock()
			defer mu.Unlock()

			job.ProcessedFiles++
			switch outcome {
			case outcomeImported:
				job.ImportedFiles++
			case outcomeSkipped:
				job.SkippedFiles++
			default:
				job.FailedFiles++
			}
			job.ProgressPercent = job.ProcessedFiles * 100 / len(files)

			if err := s.jobRepo.UpdateProgress(gctx, job); err != nil {
				log.Warn("failed to update import progress", zap.Error(err))
			}
			// Per-file failures are counted, never abort the batch
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		if markErr := s.jobRepo.MarkFailed(context.WithoutCancel(ctx), job.ID, err.Error(), time.Now().Unix()); markErr != nil {
			log.Error("failed to record job failure", zap.Error(markErr))
		}
		log.Warn("import cancelled", zap.Error(err))
		return
	}

	if err := s.jobRepo.MarkCompleted(ctx, job.ID, time.Now().Unix()); err != nil {
		log.Error("failed to complete import job", zap.Error(err))
		return
	}

	log.Info("import completed",
		zap.Int("imported", job.ImportedFiles),
		zap.Int("skipped", job.SkippedFiles),
		zap.Int("failed", job.FailedFiles),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// importFile analyses and stores one file. Files already stored, by source
// file name or by trail name, are skipped.
func (s *ImportService) importFile(ctx context.Context, path string) (importOutcome, error) {
	if err := ctx.Err(); err != nil {
		return outcomeFailed, err
	}

	source := filepath.Base(path)
	exists, err := s.trailRepo.ExistsBySource(ctx, source)
	if err != nil {
		return outcomeFailed, err
	}
	if exists {
		return outcomeSkipped, nil
	}

	doc, err := ingest.ParseFile(path)
	if err != nil {
		return outcomeFailed, err
	}

	report := analysis.Analyze(doc.Name, doc.Coordinates, s.trails.opts)
	if _, err := s.trails.Store(ctx, report, source); err != nil {
		if errors.Is(err, ErrTrailExists) {
			return outcomeSkipped, nil
		}
		return outcomeFailed, err
	}

	return outcomeImported, nil
}
