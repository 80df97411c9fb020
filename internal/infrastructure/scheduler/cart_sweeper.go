package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiredCartSweeper releases items held by carts whose reservation expired.
// Satisfied by the storefront cart service.
type ExpiredCartSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// CartSweeper periodically reclaims expired cart reservations
type CartSweeper struct {
	interval time.Duration
	sweeper  ExpiredCartSweeper
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCartSweeper creates a new cart sweeper
func NewCartSweeper(interval time.Duration, sweeper ExpiredCartSweeper, logger *zap.Logger) *CartSweeper {
	return &CartSweeper{
		interval: interval,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start starts the sweep loop
func (s *CartSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Cart sweeper started",
		zap.Duration("interval", s.interval),
	)

	return nil
}

// Stop stops the sweep loop
func (s *CartSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Cart sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CartSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CartSweeper) sweep(ctx context.Context) {
	reclaimed, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Cart sweep failed", zap.Error(err))
		return
	}
	if reclaimed > 0 {
		s.logger.Info("Reclaimed expired cart reservations",
			zap.Int64("carts", reclaimed),
		)
	}
}
