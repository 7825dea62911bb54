package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/trails-backend-go/internal/models"
)

// ImportJobRepository handles database operations for import jobs
type ImportJobRepository struct {
	db *sql.DB
}

// NewImportJobRepository creates a new import job repository
func NewImportJobRepository(db *sql.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

// Create creates a new import job
func (r *ImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_jobs (id, source_dir, status, total_files, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, job.ID, job.SourceDir, job.Status, job.TotalFiles, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

// GetByID retrieves an import job, or ErrNotFound
func (r *ImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	job := &models.ImportJob{}
	var errorMessage sql.NullString
	var startedAt, completedAt sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, source_dir, status, total_files, processed_files, imported_files,
			   skipped_files, failed_files, progress_percent, error_message,
			   created_at, started_at, completed_at
		FROM import_jobs
		WHERE id = ?
	`, id).Scan(
		&job.ID,
		&job.SourceDir,
		&job.Status,
		&job.TotalFiles,
		&job.ProcessedFiles,
		&job.ImportedFiles,
		&job.SkippedFiles,
		&job.FailedFiles,
		&job.ProgressPercent,
		&errorMessage,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}

	job.ErrorMessage = errorMessage.String
	job.StartedAt = startedAt.Int64
	job.CompletedAt = completedAt.Int64
	return job, nil
}

// MarkRunning sets a job's status to running
func (r *ImportJobRepository) MarkRunning(ctx context.Context, id string, totalFiles int, startedAt int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, total_files = ?, started_at = ?
		WHERE id = ?
	`, models.ImportStatusRunning, totalFiles, startedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark import job running: %w", err)
	}
	return nil
}

// UpdateProgress stores the job's counters
func (r *ImportJobRepository) UpdateProgress(ctx context.Context, job *models.ImportJob) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_jobs
		SET processed_files = ?, imported_files = ?, skipped_files = ?, failed_files = ?, progress_percent = ?
		WHERE id = ?
	`, job.ProcessedFiles, job.ImportedFiles, job.SkippedFiles, job.FailedFiles, job.ProgressPercent, job.ID)
	if err != nil {
		return fmt.Errorf("failed to update import job progress: %w", err)
	}
	return nil
}

// MarkCompleted marks a job as completed
func (r *ImportJobRepository) MarkCompleted(ctx context.Context, id string, completedAt int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, progress_percent = 100, completed_at = ?
		WHERE id = ?
	`, models.ImportStatusCompleted, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark import job completed: %w", err)
	}
	return nil
}

// MarkFailed marks a job as failed with an error message
func (r *ImportJobRepository) MarkFailed(ctx context.Context, id string, errorMessage string, completedAt int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ?
	`, models.ImportStatusFailed, errorMessage, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark import job failed: %w", err)
	}
	return nil
}
