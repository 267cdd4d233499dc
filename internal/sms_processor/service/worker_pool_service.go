package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProcessingService implements the ProcessingService interface.
// Messages are independent of each other, so they can be parsed in parallel;
// only the persistence gateway is shared.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessMessage submits a raw message to the worker pool for processing.
func (s *WorkerPoolProcessingService) ProcessMessage(ctx context.Context, raw *message.RawMessage) error {
	logger := s.logger
	if raw.CorrelationID != "" {
		logger = s.logger.With("correlation_id", raw.CorrelationID)
	}

	logger.Debug("Submitting message to worker pool")

	// Create a channel to receive the result of the message processing
	resultChan := make(chan error, 1)

	// Raw messages carry no unique identity of their own; a task id keys the
	// in-flight result channel.
	taskID := raw.CorrelationID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	s.mu.Lock()
	s.results[taskID] = resultChan
	s.mu.Unlock()

	// Create a copy of the message to avoid data races
	rawCopy := *raw

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Process the message using the base service
		err := s.baseService.ProcessMessage(ctx, &rawCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, taskID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, taskID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit message to worker pool", "error", err)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
