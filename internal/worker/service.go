package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sabzihub/backend/internal/config"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultSweepInterval = time.Minute
	sweepBatchSize       = 100
)

// Service runs the asynq consumer plus the payment expiry sweep.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer. The sweep loop backstops per-order expiry
// tasks that were lost, so an unpaid order never outlives its window
// by more than one sweep interval.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil {
		go s.runExpirySweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runExpirySweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.OrderService == nil {
		return
	}
	interval := defaultSweepInterval
	if s.consumer.Config != nil && s.consumer.Config.Order.ExpireSweepSeconds > 0 {
		interval = time.Duration(s.consumer.Config.Order.ExpireSweepSeconds) * time.Second
	}

	runOnce := func() {
		expired, err := s.consumer.OrderService.SweepOverduePayments(sweepBatchSize)
		if err != nil {
			logger.Warnw("worker_expiry_sweep_failed", "error", err)
			return
		}
		if expired > 0 {
			logger.Infow("worker_expiry_sweep_done", "expired", expired)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
