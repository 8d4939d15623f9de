// pkg/audit/audit.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/model"
)

// Recorder persists cleaning-run records into a tracking table. Recording is
// a side channel: failures are reported to the caller but never affect the
// cleaned data.
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder creates a new Recorder and ensures the tracking table exists
func NewRecorder(db *sqlx.DB, logger *zap.Logger) (*Recorder, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	recorder := &Recorder{
		db:     db,
		logger: logger,
	}

	if err := recorder.setupRunTable(); err != nil {
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return recorder, nil
}

// setupRunTable ensures the cleaning_runs tracking table exists
func (r *Recorder) setupRunTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.cleaning_runs (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			output_path TEXT,
			original_rows INTEGER NOT NULL,
			duplicates_removed INTEGER NOT NULL,
			nulls_removed INTEGER NOT NULL,
			final_rows INTEGER NOT NULL,
			started_at TIMESTAMP WITH TIME ZONE NOT NULL,
			finished_at TIMESTAMP WITH TIME ZONE NOT NULL,
			recorded_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured cleaning_runs table exists")
	return nil
}

// RecordRun inserts one record for a completed cleaning run
func (r *Recorder) RecordRun(ctx context.Context, run *model.RunResult) error {
	if run == nil {
		return errors.New("run result cannot be nil")
	}

	insertSQL := `
		INSERT INTO public.cleaning_runs
		(run_id, source, output_path, original_rows, duplicates_removed,
		 nulls_removed, final_rows, started_at, finished_at)
		VALUES (:run_id, :source, :output_path, :original_rows, :duplicates_removed,
		        :nulls_removed, :final_rows, :started_at, :finished_at)
	`

	_, err := r.db.NamedExecContext(ctx, insertSQL, map[string]interface{}{
		"run_id":             run.RunID,
		"source":             run.Source,
		"output_path":        run.OutputPath,
		"original_rows":      run.Report.OriginalRows,
		"duplicates_removed": run.Report.DuplicatesRemoved,
		"nulls_removed":      run.Report.NullsRemoved,
		"final_rows":         run.Report.FinalRows,
		"started_at":         run.StartTime,
		"finished_at":        run.EndTime,
	})
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	r.logger.Info("Recorded cleaning run",
		zap.String("run_id", run.RunID),
		zap.String("source", run.Source))
	return nil
}
