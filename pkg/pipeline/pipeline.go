// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/audit"
	"github.com/David-Botos/table-clean/pkg/cleaner"
	"github.com/David-Botos/table-clean/pkg/connector"
	"github.com/David-Botos/table-clean/pkg/csvfile"
	"github.com/David-Botos/table-clean/pkg/model"
)

// cleanedSuffix is inserted before the .csv extension when no output path
// is given
const cleanedSuffix = "_cleaned"

// Pipeline wires a table cleaner to file and database sources
type Pipeline struct {
	cleaner  *cleaner.TableCleaner
	logger   *zap.Logger
	recorder *audit.Recorder // optional run audit trail
}

// New creates a new pipeline around the given cleaner
func New(c *cleaner.TableCleaner, logger *zap.Logger) (*Pipeline, error) {
	if c == nil {
		return nil, errors.New("cleaner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Pipeline{
		cleaner: c,
		logger:  logger,
	}, nil
}

// WithRecorder attaches an audit recorder; each completed run is then
// persisted to the tracking table
func (p *Pipeline) WithRecorder(recorder *audit.Recorder) *Pipeline {
	p.recorder = recorder
	return p
}

// CleanFile reads a table from a CSV file, cleans a copy, writes the result
// and returns it. When outputPath is empty it is derived from the input path.
// Read and write failures propagate to the caller unrecovered.
func (p *Pipeline) CleanFile(ctx context.Context, inputPath, outputPath string) (*model.Table, *model.RunResult, error) {
	run := model.NewRunResult(inputPath)

	table, err := csvfile.ReadTable(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	cleaned, report := p.cleaner.Clean(table, false)

	if outputPath == "" {
		outputPath = DeriveOutputPath(inputPath)
	}
	if err := csvfile.WriteTable(outputPath, cleaned); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	run.OutputPath = outputPath
	run.Complete(report)

	p.logger.Info("Cleaned data saved",
		zap.String("run_id", run.RunID),
		zap.String("output_path", outputPath),
		zap.Int("final_rows", report.FinalRows))

	p.record(ctx, run)
	return cleaned, run, nil
}

// CleanQuery fetches a table from a database source, cleans it and writes
// the result to a CSV file
func (p *Pipeline) CleanQuery(ctx context.Context, source connector.TableSource, query, outputPath string) (*model.Table, *model.RunResult, error) {
	if outputPath == "" {
		return nil, nil, errors.New("output path is required when cleaning a query result")
	}

	run := model.NewRunResult(query)

	table, err := source.FetchTable(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch query result: %w", err)
	}

	cleaned, report := p.cleaner.Clean(table, false)

	if err := csvfile.WriteTable(outputPath, cleaned); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	run.OutputPath = outputPath
	run.Complete(report)

	p.logger.Info("Cleaned data saved",
		zap.String("run_id", run.RunID),
		zap.String("output_path", outputPath),
		zap.Int("final_rows", report.FinalRows))

	p.record(ctx, run)
	return cleaned, run, nil
}

// CleanQueryToTable fetches a table from a database source, cleans it and
// writes the result back into the database under destTable
func (p *Pipeline) CleanQueryToTable(ctx context.Context, source connector.TableSource, sink connector.TableSink, query, destTable string) (*model.Table, *model.RunResult, error) {
	if destTable == "" {
		return nil, nil, errors.New("destination table is required")
	}

	run := model.NewRunResult(query)

	table, err := source.FetchTable(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch query result: %w", err)
	}

	cleaned, report := p.cleaner.Clean(table, false)

	if err := sink.WriteTable(ctx, destTable, cleaned); err != nil {
		return nil, nil, fmt.Errorf("failed to write table %s: %w", destTable, err)
	}

	run.OutputPath = destTable
	run.Complete(report)

	p.logger.Info("Cleaned data saved",
		zap.String("run_id", run.RunID),
		zap.String("destination_table", destTable),
		zap.Int("final_rows", report.FinalRows))

	p.record(ctx, run)
	return cleaned, run, nil
}

// record persists the run when an audit recorder is attached. A recording
// failure never fails the run; the cleaned output is already on disk.
func (p *Pipeline) record(ctx context.Context, run *model.RunResult) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordRun(ctx, run); err != nil {
		p.logger.Warn("Failed to record cleaning run",
			zap.String("run_id", run.RunID),
			zap.Error(err))
	}
}

// DeriveOutputPath derives an output path from an input path by replacing
// the first occurrence of ".csv" with "_cleaned.csv". Paths without a .csv
// extension get "_cleaned.csv" appended.
func DeriveOutputPath(inputPath string) string {
	if strings.Contains(inputPath, ".csv") {
		return strings.Replace(inputPath, ".csv", cleanedSuffix+".csv", 1)
	}
	return inputPath + cleanedSuffix + ".csv"
}

// CleanData is the one-shot convenience entry point: it reads a CSV file,
// cleans a copy with the given flags, writes the result (deriving the output
// path when empty) and returns the cleaned table. Progress is logged through
// the global zap logger.
func CleanData(inputPath, outputPath string, removeDuplicates, removeNulls bool) (*model.Table, error) {
	logger := zap.L().Named("pipeline")

	c, err := cleaner.NewTableCleaner(logger,
		cleaner.WithRemoveDuplicates(removeDuplicates),
		cleaner.WithRemoveNulls(removeNulls))
	if err != nil {
		return nil, err
	}

	p, err := New(c, logger)
	if err != nil {
		return nil, err
	}

	cleaned, _, err := p.CleanFile(context.Background(), inputPath, outputPath)
	return cleaned, err
}
