package shortener

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor runs the prune pass on a fixed interval.
type Janitor struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	started  bool
	done     chan struct{}
}

// NewJanitor creates a janitor. An interval of zero (or less) disables it.
func NewJanitor(service *Service, interval time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		service:  service,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the periodic prune loop.
func (j *Janitor) Start(ctx context.Context) error {
	if j.interval <= 0 {
		return nil
	}

	j.started = true
	ctx, j.cancel = context.WithCancel(ctx)

	go j.run(ctx)

	j.logger.Info("prune janitor started", zap.Duration("interval", j.interval))

	return nil
}

func (j *Janitor) run(ctx context.Context) {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.service.Prune(ctx, time.Now()); err != nil {
				j.logger.Error("prune pass failed", zap.Error(err))
			}
		}
	}
}

// Shutdown stops the janitor and waits for an in-flight pass to finish.
func (j *Janitor) Shutdown() error {
	if !j.started {
		return nil
	}

	j.cancel()

	<-j.done

	return nil
}
