package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task - периодическая фоновая задача
type Task func(ctx context.Context) error

// Scheduler запускает задачу сразу и затем с заданным интервалом
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(name string, interval time.Duration, task Task, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает задачу в фоне
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background task", zap.String("task", s.name), zap.Duration("interval", s.interval))
	go s.loop(ctx)
}

// Stop останавливает задачу и ждёт завершения текущего запуска
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background task", zap.String("task", s.name))
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", s.name))
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.task(ctx); err != nil {
		s.logger.Error("Background task failed", zap.String("task", s.name), zap.Error(err))
	}
}
