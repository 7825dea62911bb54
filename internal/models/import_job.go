package models

// ImportJob tracks a batch import of a directory of trail files
type ImportJob struct {
	ID        string `json:"id" db:"id"` // UUID
	SourceDir string `json:"source_dir" db:"source_dir"`

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent int    `json:"progress_percent" db:"progress_percent"`

	// Counters
	TotalFiles     int `json:"total_files" db:"total_files"`
	ProcessedFiles int `json:"processed_files" db:"processed_files"`
	ImportedFiles  int `json:"imported_files" db:"imported_files"`
	SkippedFiles   int `json:"skipped_files" db:"skipped_files"` // Already stored
	FailedFiles    int `json:"failed_files" db:"failed_files"`

	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	// Unix timestamps
	CreatedAt   int64 `json:"created_at" db:"created_at"`
	StartedAt   int64 `json:"started_at,omitempty" db:"started_at"`
	CompletedAt int64 `json:"completed_at,omitempty" db:"completed_at"`
}

// ImportJob status constants
const (
	ImportStatusPending   = "pending"
	ImportStatusRunning   = "running"
	ImportStatusCompleted = "completed"
	ImportStatusFailed    = "failed"
)
