// pkg/model/report.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CleanReport describes the outcome of a single Clean call.
// Invariant: FinalRows <= OriginalRows - DuplicatesRemoved <= OriginalRows.
type CleanReport struct {
	OriginalRows      int // Row count before any stage ran
	DuplicatesRemoved int // Rows dropped by the deduplication stage (0 if skipped)
	NullsRemoved      int // Rows dropped by the null-removal stage (0 if skipped)
	FinalRows         int // Row count after all enabled stages
}

// TableSummary is a point-in-time inspection of a table. All figures are
// computed independently from the unmodified table, so a row may be counted
// under both DuplicateRows and RowsWithNulls.
type TableSummary struct {
	TotalRows     int
	DuplicateRows int            // Rows equal to a strictly earlier row (first occurrence not counted)
	RowsWithNulls int            // Rows with at least one absent value
	NullCounts    map[string]int // Absent-value count per column (every column present)
}

// RunResult captures one end-to-end cleaning run for reporting and auditing
type RunResult struct {
	RunID      string // Unique run identifier
	Source     string // Input path or query the table was loaded from
	OutputPath string // Where the cleaned table was written (empty if not written)
	Report     CleanReport
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// NewRunResult initializes a run result for the given source
func NewRunResult(source string) *RunResult {
	return &RunResult{
		RunID:     uuid.New().String(),
		Source:    source,
		StartTime: time.Now(),
	}
}

// Complete records the report and calculates the run duration
func (r *RunResult) Complete(report CleanReport) {
	r.Report = report
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
