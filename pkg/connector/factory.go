// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/table-clean/pkg/config"
)

// ConnectorFactory creates database connectors from configuration
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	if f.cfg.Postgres == nil {
		return nil, errors.New("PostgreSQL is not configured")
	}
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	if f.cfg.Snowflake == nil {
		return nil, errors.New("snowflake is not configured")
	}
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreateSource creates a table source for the named driver
func (f *ConnectorFactory) CreateSource(ctx context.Context, driver string) (TableSource, error) {
	switch driver {
	case "postgres":
		return f.CreatePostgresConnector(ctx)
	case "snowflake":
		return f.CreateSnowflakeConnector(ctx)
	default:
		return nil, fmt.Errorf("unknown source driver: %s", driver)
	}
}
