package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/market-backend/internal/cfg"
	"github.com/DRSN-tech/market-backend/pkg/jitter"
	"github.com/DRSN-tech/market-backend/pkg/logger"
)

// Reconciler: часть SettlementUC, которую использует воркер.
type Reconciler interface {
	Reconcile(ctx context.Context, limit int) (int, error)
}

// Worker периодически дописывает заказы для оплаченных расчётов, помеченных на сверку.
// После ошибки интервал растёт экспоненциально до MaxInterval.
type Worker struct {
	uc        Reconciler
	logger    logger.Logger
	interval  time.Duration
	batchSize int
	backoff   *jitter.Backoff
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewWorker(uc Reconciler, cfg *cfg.ReconcilerCfg, logger logger.Logger) *Worker {
	maxInterval := cfg.MaxInterval
	if maxInterval < cfg.Interval {
		maxInterval = cfg.Interval
	}

	return &Worker{
		uc:        uc,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		backoff:   jitter.NewBackoff(cfg.Interval, maxInterval),
		stop:      make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	w.logger.Infof("Settlement reconciler started, interval=%s batch=%d", w.interval, w.batchSize)

	delay := w.interval
	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		delay = w.tick(ctx)
	}
}

// tick выполняет один проход сверки и возвращает задержку до следующего.
func (w *Worker) tick(ctx context.Context) time.Duration {
	n, err := w.uc.Reconcile(ctx, w.batchSize)
	if err != nil {
		next := w.backoff.Next()
		w.logger.Warnf("Reconciliation pass failed, next attempt in %s: %v", next, err)
		return next
	}

	w.backoff.Reset()
	if n > 0 {
		w.logger.Infof("Reconciled %d settlements", n)
	}
	return w.interval
}
