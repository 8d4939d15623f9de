package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/table-clean/pkg/model"
)

// sampleTable builds a 7-row table with 2 duplicate rows and 4 rows
// containing at least one null value
func sampleTable() *model.Table {
	t := model.NewTable([]string{"ID", "Name", "Age", "Salary"})
	t.AppendRow(model.Row{"ID": "1", "Name": "Alice", "Age": "25", "Salary": "50000"})
	t.AppendRow(model.Row{"ID": "2", "Name": "Bob", "Age": "30", "Salary": "60000"})
	t.AppendRow(model.Row{"ID": "2", "Name": "Bob", "Age": "30", "Salary": "60000"})
	t.AppendRow(model.Row{"ID": "3", "Name": "Charlie", "Age": nil, "Salary": "70000"})
	t.AppendRow(model.Row{"ID": "4", "Name": nil, "Age": "28", "Salary": "55000"})
	t.AppendRow(model.Row{"ID": "5", "Name": "Eve", "Age": "35", "Salary": nil})
	t.AppendRow(model.Row{"ID": "5", "Name": "Eve", "Age": "35", "Salary": nil})
	return t
}

func newCleaner(t *testing.T, opts ...Option) *TableCleaner {
	t.Helper()
	c, err := NewTableCleaner(zap.NewNop(), opts...)
	require.NoError(t, err)
	return c
}

func TestNewTableCleanerRequiresLogger(t *testing.T) {
	_, err := NewTableCleaner(nil)
	assert.Error(t, err)
}

func TestNewTableCleanerDefaults(t *testing.T) {
	c := newCleaner(t)
	assert.True(t, c.RemovesDuplicates())
	assert.True(t, c.RemovesNulls())

	c = newCleaner(t, WithRemoveDuplicates(false), WithRemoveNulls(false))
	assert.False(t, c.RemovesDuplicates())
	assert.False(t, c.RemovesNulls())
}

func TestCleanRemovesDuplicatesThenNulls(t *testing.T) {
	c := newCleaner(t)
	original := sampleTable()

	cleaned, report := c.Clean(original, false)

	assert.Equal(t, 7, report.OriginalRows)
	assert.Equal(t, 2, report.DuplicatesRemoved)
	assert.Equal(t, 3, report.NullsRemoved)
	assert.Equal(t, 2, report.FinalRows)

	require.Equal(t, 2, cleaned.RowCount())
	assert.Equal(t, "Alice", cleaned.Rows[0]["Name"])
	assert.Equal(t, "Bob", cleaned.Rows[1]["Name"])

	// copy semantics: the caller's table is untouched
	assert.Equal(t, 7, original.RowCount())
}

func TestCleanInPlaceMutatesCaller(t *testing.T) {
	c := newCleaner(t)
	table := sampleTable()

	cleaned, report := c.Clean(table, true)

	assert.Same(t, table, cleaned)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, 2, report.FinalRows)
}

func TestCleanCopyIsIndependent(t *testing.T) {
	c := newCleaner(t, WithRemoveDuplicates(false), WithRemoveNulls(false))
	original := sampleTable()

	cleaned, _ := c.Clean(original, false)

	require.NotSame(t, original, cleaned)
	cleaned.Rows[0]["Name"] = "Mallory"
	assert.Equal(t, "Alice", original.Rows[0]["Name"])
}

func TestCleanStageCombinations(t *testing.T) {
	tests := []struct {
		name              string
		removeDuplicates  bool
		removeNulls       bool
		duplicatesRemoved int
		nullsRemoved      int
		finalRows         int
	}{
		{"both enabled", true, true, 2, 3, 2},
		{"duplicates only", true, false, 2, 0, 5},
		{"nulls only", false, true, 0, 4, 3},
		{"both disabled", false, false, 0, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCleaner(t,
				WithRemoveDuplicates(tt.removeDuplicates),
				WithRemoveNulls(tt.removeNulls))

			_, report := c.Clean(sampleTable(), false)

			assert.Equal(t, 7, report.OriginalRows)
			assert.Equal(t, tt.duplicatesRemoved, report.DuplicatesRemoved)
			assert.Equal(t, tt.nullsRemoved, report.NullsRemoved)
			assert.Equal(t, tt.finalRows, report.FinalRows)
		})
	}
}

func TestCleanEmptyTable(t *testing.T) {
	c := newCleaner(t)
	table := model.NewTable([]string{"a", "b"})

	cleaned, report := c.Clean(table, false)

	assert.Equal(t, 0, cleaned.RowCount())
	assert.Equal(t, model.CleanReport{}, report)
}

func TestCleanIdempotent(t *testing.T) {
	for _, inPlace := range []bool{false, true} {
		c := newCleaner(t)

		once, first := c.Clean(sampleTable(), inPlace)
		twice, second := c.Clean(once, inPlace)

		assert.Equal(t, first.FinalRows, second.OriginalRows)
		assert.Equal(t, 0, second.DuplicatesRemoved)
		assert.Equal(t, 0, second.NullsRemoved)
		assert.Equal(t, once.RowCount(), twice.RowCount())
	}
}

// A null-containing row and its exact duplicate: the duplicate is removed at
// the deduplication stage, the surviving first occurrence at the null stage.
func TestCleanStageAttribution(t *testing.T) {
	c := newCleaner(t)
	table := model.NewTable([]string{"a", "b"})
	table.AppendRow(model.Row{"a": "1", "b": nil})
	table.AppendRow(model.Row{"a": "1", "b": nil})

	_, report := c.Clean(table, false)

	assert.Equal(t, 1, report.DuplicatesRemoved)
	assert.Equal(t, 1, report.NullsRemoved)
	assert.Equal(t, 0, report.FinalRows)
}

func TestCleanEmitsStageEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, err := NewTableCleaner(zap.New(core))
	require.NoError(t, err)

	c.Clean(sampleTable(), false)

	dedup := logs.FilterField(zap.String("stage", StageDeduplicate)).All()
	require.Len(t, dedup, 1)
	assert.Equal(t, int64(2), dedup[0].ContextMap()["rows_removed"])

	nulls := logs.FilterField(zap.String("stage", StageDropNulls)).All()
	require.Len(t, nulls, 1)
	assert.Equal(t, int64(3), nulls[0].ContextMap()["rows_removed"])

	complete := logs.FilterMessage("Cleaning complete").All()
	require.Len(t, complete, 1)
	assert.Equal(t, int64(7), complete[0].ContextMap()["original_rows"])
	assert.Equal(t, int64(2), complete[0].ContextMap()["final_rows"])
}

func TestCleanSkippedStagesEmitNothing(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, err := NewTableCleaner(zap.New(core),
		WithRemoveDuplicates(false), WithRemoveNulls(false))
	require.NoError(t, err)

	c.Clean(sampleTable(), false)

	assert.Empty(t, logs.FilterField(zap.String("stage", StageDeduplicate)).All())
	assert.Empty(t, logs.FilterField(zap.String("stage", StageDropNulls)).All())
	assert.Len(t, logs.FilterMessage("Cleaning complete").All(), 1)
}

func TestSummarize(t *testing.T) {
	c := newCleaner(t)
	table := sampleTable()

	summary := c.Summarize(table)

	assert.Equal(t, 7, summary.TotalRows)
	assert.Equal(t, 2, summary.DuplicateRows)
	assert.Equal(t, 4, summary.RowsWithNulls)
	assert.Equal(t, map[string]int{
		"ID":     0,
		"Name":   1,
		"Age":    1,
		"Salary": 2,
	}, summary.NullCounts)

	// read-only: the table is untouched
	assert.Equal(t, 7, table.RowCount())
	assert.Equal(t, "Alice", table.Rows[0]["Name"])
}

func TestSummarizeCountsRepeatsOfFirstOccurrence(t *testing.T) {
	c := newCleaner(t)
	table := model.NewTable([]string{"a"})
	table.AppendRow(model.Row{"a": "x"})
	table.AppendRow(model.Row{"a": "x"})
	table.AppendRow(model.Row{"a": "x"})

	summary := c.Summarize(table)
	assert.Equal(t, 2, summary.DuplicateRows)
}

func TestSummarizeEmptyTable(t *testing.T) {
	c := newCleaner(t)
	summary := c.Summarize(model.NewTable([]string{"a", "b"}))

	assert.Equal(t, 0, summary.TotalRows)
	assert.Equal(t, 0, summary.DuplicateRows)
	assert.Equal(t, 0, summary.RowsWithNulls)
	assert.Equal(t, map[string]int{"a": 0, "b": 0}, summary.NullCounts)
}
