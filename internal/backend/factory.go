package backend

import (
	"context"
	"errors"
	"fmt"

	"saki/internal/amqp"
	"saki/internal/log"
	"saki/internal/store"
	"saki/internal/store/jsonfile"
	"saki/internal/store/memory"
	"saki/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
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

	var (
		s   store.Store
		err error
	)
	switch config.Type {
	case JSONBackend:
		s = jsonfile.New(config.DataDirectory)
	case SQLiteBackend:
		s, err = sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
	case MemoryBackend:
		s = memory.New()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if err := s.Initialize(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize %s store: %w", config.Type, err)
	}

	f.logger.InfoContext(ctx, "Initialized store",
		log.FieldBackend, config.Type.String(),
		log.FieldPath, storePath(config))

	publisher := f.createPublisher(ctx, config)

	return &BackendResult{
		Store:     s,
		Publisher: publisher,
		Cleanup: func() error {
			var errs []error
			if publisher != nil {
				errs = append(errs, publisher.Close())
			}
			errs = append(errs, s.Close())
			return errors.Join(errs...)
		},
	}, nil
}

// createPublisher connects to the broker when one is configured. A broker
// that cannot be reached is logged and the backend runs without events.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
			log.FieldError, err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func storePath(config Config) string {
	switch config.Type {
	case JSONBackend:
		return config.DataDirectory
	case SQLiteBackend:
		return config.SQLiteDBPath
	default:
		return ""
	}
}
