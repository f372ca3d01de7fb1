package backend

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	"spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default(log.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	gateway, err := f.openGateway(config)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{services.WithLogger(f.logger)}

	// AMQP is optional: a broker outage must not keep the ledger from starting.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			opts = append(opts, services.WithEvents(amqpClient))
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange)
		}
	}

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := gateway.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}

	repo := services.NewExpenseRepository(gateway, opts...)
	if err := repo.Initialize(ctx); err != nil {
		cleanup()
		return nil, err
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		log.FieldBackend, config.Type,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Repository: repo,
		Gateway:    gateway,
		Cleanup:    cleanup,
	}, nil
}

func (f *DefaultFactory) openGateway(config Config) (storage.Gateway, error) {
	switch config.Type {
	case SQLiteBackend:
		g, err := storage.NewSQLiteGateway(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite gateway: %w", err)
		}
		return g, nil
	case PostgresBackend:
		g, err := storage.NewPostgresGateway(config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres gateway: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
