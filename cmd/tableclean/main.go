package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/David-Botos/table-clean/pkg/audit"
	"github.com/David-Botos/table-clean/pkg/cleaner"
	"github.com/David-Botos/table-clean/pkg/config"
	"github.com/David-Botos/table-clean/pkg/connector"
	"github.com/David-Botos/table-clean/pkg/csvfile"
	"github.com/David-Botos/table-clean/pkg/model"
	"github.com/David-Botos/table-clean/pkg/pipeline"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Path to the input CSV file (when -source=file)")
	output := flag.String("output", "", "Path for the cleaned CSV (default: derived from the input path)")
	source := flag.String("source", "file", "Table source: file, postgres or snowflake")
	query := flag.String("query", "", "Query to fetch when the source is a database")
	destTable := flag.String("dest-table", "", "Write the cleaned result back into this PostgreSQL table instead of a CSV file")
	summaryOnly := flag.Bool("summary", false, "Print a cleaning summary without modifying anything")
	removeDuplicates := flag.Bool("remove-duplicates", cfg.RemoveDuplicates, "Remove duplicate rows")
	removeNulls := flag.Bool("remove-nulls", cfg.RemoveNulls, "Remove rows containing null values")
	flag.Parse()

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	opts := runOptions{
		cfg:              cfg,
		input:            *input,
		output:           *output,
		source:           *source,
		query:            *query,
		destTable:        *destTable,
		summaryOnly:      *summaryOnly,
		removeDuplicates: *removeDuplicates,
		removeNulls:      *removeNulls,
	}

	if err := run(context.Background(), logger, opts); err != nil {
		logger.Error("Run failed", zap.Error(err))
		os.Exit(1)
	}
}

type runOptions struct {
	cfg              *config.Config
	input            string
	output           string
	source           string
	query            string
	destTable        string
	summaryOnly      bool
	removeDuplicates bool
	removeNulls      bool
}

func run(ctx context.Context, logger *zap.Logger, opts runOptions) error {
	tableCleaner, err := cleaner.NewTableCleaner(logger.Named("cleaner"),
		cleaner.WithRemoveDuplicates(opts.removeDuplicates),
		cleaner.WithRemoveNulls(opts.removeNulls))
	if err != nil {
		return err
	}

	if opts.summaryOnly {
		table, err := loadTable(ctx, logger, opts)
		if err != nil {
			return err
		}
		printSummary(tableCleaner.Summarize(table))
		return nil
	}

	p, err := pipeline.New(tableCleaner, logger.Named("pipeline"))
	if err != nil {
		return err
	}

	if opts.cfg.AuditEnabled {
		recorder, cleanup, err := buildRecorder(ctx, logger, opts.cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		p = p.WithRecorder(recorder)
	}

	switch opts.source {
	case "file":
		if opts.input == "" {
			return fmt.Errorf("-input is required when -source=file")
		}
		_, run, err := p.CleanFile(ctx, opts.input, opts.output)
		if err != nil {
			return err
		}
		logger.Info("Run complete",
			zap.String("run_id", run.RunID),
			zap.Duration("duration", run.Duration))
		return nil

	case "postgres", "snowflake":
		if opts.query == "" {
			return fmt.Errorf("-query is required when -source=%s", opts.source)
		}
		factory := connector.NewConnectorFactory(opts.cfg, logger)
		src, err := factory.CreateSource(ctx, opts.source)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := src.Validate(); err != nil {
			return err
		}

		var run *model.RunResult
		if opts.destTable != "" {
			sink, ok := src.(connector.TableSink)
			if !ok {
				return fmt.Errorf("source %s cannot write tables; use -output instead", opts.source)
			}
			_, run, err = p.CleanQueryToTable(ctx, src, sink, opts.query, opts.destTable)
		} else {
			_, run, err = p.CleanQuery(ctx, src, opts.query, opts.output)
		}
		if err != nil {
			return err
		}
		logger.Info("Run complete",
			zap.String("run_id", run.RunID),
			zap.Duration("duration", run.Duration))
		return nil

	default:
		return fmt.Errorf("unknown source: %s", opts.source)
	}
}

// loadTable reads the table for summary mode from whichever source is selected
func loadTable(ctx context.Context, logger *zap.Logger, opts runOptions) (*model.Table, error) {
	switch opts.source {
	case "file":
		if opts.input == "" {
			return nil, fmt.Errorf("-input is required when -source=file")
		}
		return csvfile.ReadTable(opts.input)
	case "postgres", "snowflake":
		if opts.query == "" {
			return nil, fmt.Errorf("-query is required when -source=%s", opts.source)
		}
		factory := connector.NewConnectorFactory(opts.cfg, logger)
		src, err := factory.CreateSource(ctx, opts.source)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.FetchTable(ctx, opts.query)
	default:
		return nil, fmt.Errorf("unknown source: %s", opts.source)
	}
}

// buildRecorder connects to Postgres and prepares the run audit trail
func buildRecorder(ctx context.Context, logger *zap.Logger, cfg *config.Config) (*audit.Recorder, func(), error) {
	pg, err := connector.NewPostgresConnector(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect audit database: %w", err)
	}

	recorder, err := audit.NewRecorder(pg.DB(), logger.Named("audit"))
	if err != nil {
		pg.Close()
		return nil, nil, err
	}

	return recorder, func() { pg.Close() }, nil
}

func printSummary(summary model.TableSummary) {
	fmt.Printf("Total rows:       %d\n", summary.TotalRows)
	fmt.Printf("Duplicate rows:   %d\n", summary.DuplicateRows)
	fmt.Printf("Rows with nulls:  %d\n", summary.RowsWithNulls)
	fmt.Println("Null counts per column:")

	columns := make([]string, 0, len(summary.NullCounts))
	for col := range summary.NullCounts {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		fmt.Printf("  %-20s %d\n", col, summary.NullCounts[col])
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
