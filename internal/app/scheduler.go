package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Digester отправляет периодическую сводку окна записи
type Digester interface {
	SendDigest(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	digester Digester
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик, interval <= 0 отключает сводку
func NewScheduler(digester Digester, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		digester: digester,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 || s.digester == nil {
		s.logger.Info("Digest disabled")
		close(s.done)
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))
	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runDigestTask отправляет сводку каждые interval, первый раз через interval после старта
func (s *Scheduler) runDigestTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendDigest(ctx)
		case <-s.stopChan:
			s.logger.Info("Digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Digest task cancelled")
			return
		}
	}
}

func (s *Scheduler) sendDigest(ctx context.Context) {
	if err := s.digester.SendDigest(ctx); err != nil {
		s.logger.Error("Failed to send digest", zap.Error(err))
		return
	}

	s.logger.Info("Digest sent")
}
