// pkg/connector/snowflake.go
package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	sf "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/config"
	"github.com/David-Botos/table-clean/pkg/model"
)

// SnowflakeConnector implements TableSource for Snowflake
type SnowflakeConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.SnowflakeConfig
}

// NewSnowflakeConnector creates a new Snowflake connection
func NewSnowflakeConnector(ctx context.Context, cfg *config.SnowflakeConfig) (*SnowflakeConnector, error) {
	logger := zap.L().Named("snowflake-connector")

	sfConfig := &sf.Config{
		Account:       cfg.Account,
		User:          cfg.User,
		Password:      cfg.Password,
		Database:      cfg.Database,
		Warehouse:     cfg.Warehouse,
		Role:          cfg.Role,
		Authenticator: cfg.Authenticator,
	}

	// Log connection attempt (without credentials)
	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
		zap.String("warehouse", cfg.Warehouse))

	dsn, err := sf.DSN(sfConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := sqlx.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Snowflake connection: %w", err)
	}

	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if err := PingWithTimeout(ctx, db, 10*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	connector := &SnowflakeConnector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	LogConnectionStats(logger, cfg.Database, db)
	return connector, nil
}

// DB returns the underlying database handle
func (c *SnowflakeConnector) DB() *sqlx.DB {
	return c.db
}

// FetchTable executes a query and materializes the result as a table
func (c *SnowflakeConnector) FetchTable(ctx context.Context, query string) (*model.Table, error) {
	table, err := fetchTable(ctx, c.db, query, c.cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Fetched table from Snowflake",
		zap.Int("rows", table.RowCount()),
		zap.Int("columns", len(table.Columns)))
	return table, nil
}

// Validate verifies the Snowflake connection and access rights
func (c *SnowflakeConnector) Validate() error {
	var role, database, warehouse string
	err := c.db.QueryRow("SELECT CURRENT_ROLE(), CURRENT_DATABASE(), CURRENT_WAREHOUSE()").Scan(
		&role, &database, &warehouse)
	if err != nil {
		return fmt.Errorf("failed to verify Snowflake access: %w", err)
	}

	c.logger.Info("Connected to Snowflake",
		zap.String("role", role),
		zap.String("database", database),
		zap.String("warehouse", warehouse))

	if database != c.cfg.Database {
		return fmt.Errorf("connected to wrong database: %s (expected: %s)",
			database, c.cfg.Database)
	}

	return nil
}

// Close closes the database connection
func (c *SnowflakeConnector) Close() error {
	c.logger.Info("Closing Snowflake connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}
