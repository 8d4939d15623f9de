// pkg/connector/postgres.go
package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/config"
	"github.com/David-Botos/table-clean/pkg/converter"
	"github.com/David-Botos/table-clean/pkg/model"
)

// PostgresConnector implements TableSource and TableSink for PostgreSQL
type PostgresConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresConnector creates and initializes a new PostgreSQL connector
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig) (*PostgresConnector, error) {
	logger := zap.L().Named("postgres-connector")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := &PostgresConnector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	LogConnectionStats(logger, cfg.Database, db)
	return connector, nil
}

// DB returns the underlying database handle
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// FetchTable executes a query and materializes the result as a table
func (c *PostgresConnector) FetchTable(ctx context.Context, query string) (*model.Table, error) {
	table, err := fetchTable(ctx, c.db, query, c.cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Fetched table from PostgreSQL",
		zap.Int("rows", table.RowCount()),
		zap.Int("columns", len(table.Columns)))
	return table, nil
}

// Validate verifies the PostgreSQL connection
func (c *PostgresConnector) Validate() error {
	var version string
	if err := c.db.Get(&version, "SELECT version()"); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}

	c.logger.Info("Connected to PostgreSQL",
		zap.String("version", version),
		zap.String("database", c.cfg.Database))
	return nil
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// WriteTable inserts every row of the table into the named table, creating
// it with TEXT columns if it does not exist. Absent values are written as
// SQL NULL.
func (c *PostgresConnector) WriteTable(ctx context.Context, table string, t *model.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table has no columns")
	}

	if err := c.createTableIfNotExists(ctx, table, t.Columns); err != nil {
		return err
	}

	quoted := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		quoted[i] = quoteIdentifier(col)
	}
	columnStr := strings.Join(quoted, ", ")

	batchSize := insertBatchSize(len(t.Columns))
	inserted := 0

	for start := 0; start < len(t.Rows); start += batchSize {
		end := start + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		batch := t.Rows[start:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(t.Columns))
		for i, row := range batch {
			rowPlaceholders := make([]string, len(t.Columns))
			for j, col := range t.Columns {
				rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(t.Columns)+j+1)
				value := row[col]
				if model.IsAbsent(value) {
					args = append(args, nil)
				} else {
					args = append(args, converter.FormatValue(value))
				}
			}
			placeholders[i] = fmt.Sprintf("(%s)", strings.Join(rowPlaceholders, ", "))
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			quoteIdentifier(table), columnStr, strings.Join(placeholders, ", "))

		queryCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
		_, err := c.db.ExecContext(queryCtx, query, args...)
		cancel()
		if err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", start, err)
		}
		inserted += len(batch)
	}

	c.logger.Info("Wrote table to PostgreSQL",
		zap.String("table", table),
		zap.Int("rows", inserted))
	return nil
}

// A single PostgreSQL statement carries at most 65535 bind parameters, so
// batch size depends on how wide the table is.
const (
	maxBindParams = 65535
	maxBatchRows  = 500
)

// insertBatchSize returns how many rows fit in one INSERT without exceeding
// the bind-parameter limit, capped at maxBatchRows. Always at least one row.
func insertBatchSize(columns int) int {
	size := maxBindParams / columns
	if size < 1 {
		return 1
	}
	if size > maxBatchRows {
		return maxBatchRows
	}
	return size
}

// createTableIfNotExists creates the target table with TEXT columns
func (c *PostgresConnector) createTableIfNotExists(ctx context.Context, table string, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s TEXT", quoteIdentifier(col))
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdentifier(table), strings.Join(defs, ", "))

	queryCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	if _, err := c.db.ExecContext(queryCtx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// quoteIdentifier properly quotes and escapes a PostgreSQL identifier
func quoteIdentifier(name string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(name, "\"", "\"\""))
}
