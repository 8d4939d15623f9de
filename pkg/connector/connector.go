// pkg/connector/connector.go
package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/converter"
	"github.com/David-Botos/table-clean/pkg/model"
)

// TableSource fetches tabular data from a database
type TableSource interface {
	// FetchTable executes a query and materializes the result as a table
	FetchTable(ctx context.Context, query string) (*model.Table, error)

	// Validate verifies the connection and permissions
	Validate() error

	// Close closes the connection and releases resources
	Close() error
}

// TableSink writes tabular data into a database
type TableSink interface {
	// WriteTable inserts every row of the table into the named table,
	// creating it if necessary
	WriteTable(ctx context.Context, table string, t *model.Table) error
}

// PingWithTimeout attempts to ping a database with a timeout
func PingWithTimeout(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping failed after %v: %w", timeout, err)
	}
	return nil
}

// ApplyConnectionSettings configures database connection pool settings
func ApplyConnectionSettings(db *sqlx.DB, maxOpen, maxIdle int, maxLifetime, maxIdleTime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
	if maxIdleTime > 0 {
		db.SetConnMaxIdleTime(maxIdleTime)
	}
}

// LogConnectionStats logs connection pool statistics
func LogConnectionStats(logger *zap.Logger, name string, db *sqlx.DB) {
	stats := db.Stats()
	logger.Debug("Connection pool stats",
		zap.String("database", name),
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConnections),
	)
}

// fetchTable executes a query and scans every row into a model.Table.
// Column order follows the query's result set; driver values are normalized
// so equal values from different drivers compare equal during cleaning.
func fetchTable(ctx context.Context, db *sqlx.DB, query string, timeout time.Duration) (*model.Table, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.QueryxContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := model.NewTable(columns)
	for rows.Next() {
		record := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(record); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", table.RowCount(), err)
		}

		row := make(model.Row, len(columns))
		for _, col := range columns {
			row[col] = converter.NormalizeValue(record[col])
		}
		table.AppendRow(row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return table, nil
}
