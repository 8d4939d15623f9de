// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"

	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/model"
)

// Stage names attached to cleaning progress events
const (
	StageDeduplicate = "deduplicate"
	StageDropNulls   = "drop_nulls"
)

// TableCleaner applies configurable cleaning passes to in-memory tables.
// Its configuration is immutable after construction, so a single instance
// is safe to reuse across many Clean calls.
type TableCleaner struct {
	removeDuplicates bool
	removeNulls      bool
	logger           *zap.Logger
}

// Option configures a TableCleaner at construction time
type Option func(*TableCleaner)

// WithRemoveDuplicates enables or disables the duplicate-removal stage
func WithRemoveDuplicates(enabled bool) Option {
	return func(c *TableCleaner) {
		c.removeDuplicates = enabled
	}
}

// WithRemoveNulls enables or disables the null-removal stage
func WithRemoveNulls(enabled bool) Option {
	return func(c *TableCleaner) {
		c.removeNulls = enabled
	}
}

// NewTableCleaner creates a new TableCleaner. Both stages are enabled by
// default; every combination of options is valid, including disabling both.
func NewTableCleaner(logger *zap.Logger, opts ...Option) (*TableCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	cleaner := &TableCleaner{
		removeDuplicates: true,
		removeNulls:      true,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(cleaner)
	}

	return cleaner, nil
}

// RemovesDuplicates reports whether the deduplication stage is enabled
func (c *TableCleaner) RemovesDuplicates() bool {
	return c.removeDuplicates
}

// RemovesNulls reports whether the null-removal stage is enabled
func (c *TableCleaner) RemovesNulls() bool {
	return c.removeNulls
}

// Clean applies the enabled stages to the table in fixed order: duplicates
// first, then rows containing null values. When inPlace is false the caller's
// table is deep-copied and left untouched; when true the table is filtered in
// place and the same object is returned.
//
// Each stage that runs emits a structured progress event; skipped stages emit
// nothing. Cleaning cannot fail for a well-formed table: empty tables,
// all-duplicate tables and all-null tables all produce well-defined output.
func (c *TableCleaner) Clean(table *model.Table, inPlace bool) (*model.Table, model.CleanReport) {
	if !inPlace {
		table = table.Copy()
	}

	report := model.CleanReport{OriginalRows: table.RowCount()}

	if c.removeDuplicates {
		report.DuplicatesRemoved = dropDuplicateRows(table)
		c.logger.Info("Removed duplicate rows",
			zap.String("stage", StageDeduplicate),
			zap.Int("rows_removed", report.DuplicatesRemoved))
	}

	if c.removeNulls {
		report.NullsRemoved = dropNullRows(table)
		c.logger.Info("Removed rows with null values",
			zap.String("stage", StageDropNulls),
			zap.Int("rows_removed", report.NullsRemoved))
	}

	report.FinalRows = table.RowCount()
	c.logger.Info("Cleaning complete",
		zap.Int("original_rows", report.OriginalRows),
		zap.Int("final_rows", report.FinalRows))

	return table, report
}

// Summarize inspects a table without modifying it and without logging.
// The four figures are independent: a row equal to an earlier row and
// containing a null is counted under both DuplicateRows and RowsWithNulls.
func (c *TableCleaner) Summarize(table *model.Table) model.TableSummary {
	summary := model.TableSummary{
		TotalRows:  table.RowCount(),
		NullCounts: make(map[string]int, len(table.Columns)),
	}
	for _, col := range table.Columns {
		summary.NullCounts[col] = 0
	}

	seen := make(map[string]struct{}, table.RowCount())
	for _, row := range table.Rows {
		key := rowKey(row, table.Columns)
		if _, dup := seen[key]; dup {
			summary.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}

		hasNull := false
		for _, col := range table.Columns {
			if model.IsAbsent(row[col]) {
				summary.NullCounts[col]++
				hasNull = true
			}
		}
		if hasNull {
			summary.RowsWithNulls++
		}
	}

	return summary
}
