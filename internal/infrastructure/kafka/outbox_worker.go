package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/jitter"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

const (
	defaultBatchSize    = 10
	defaultPollInterval = 15 * time.Second
	defaultStaleAfter   = time.Minute
	notifyWaitTimeout   = 30 * time.Second
)

// OutboxWorker переносит события из outbox_events в Kafka.
// Просыпается по NOTIFY и дополнительно по таймеру, чтобы не терять пропущенные уведомления.
type OutboxWorker struct {
	repo         usecase.OutboxRepository
	logger       logger.Logger
	producer     usecase.MessageProducer
	stopCtx      context.Context
	stop         context.CancelFunc
	wg           sync.WaitGroup
	dbConnStr    string
	channel      string
	batchSize    int
	pollInterval time.Duration
	staleAfter   time.Duration
	drainMu      sync.Mutex
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	channel string,
	batchSize int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	stopCtx, stop := context.WithCancel(context.Background())

	return &OutboxWorker{
		repo:         repo,
		logger:       logger,
		producer:     producer,
		stopCtx:      stopCtx,
		stop:         stop,
		dbConnStr:    dbConnStr,
		channel:      channel,
		batchSize:    batchSize,
		pollInterval: defaultPollInterval,
		staleAfter:   defaultStaleAfter,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop прерывает ожидание LISTEN и backoff и ждёт завершения горутин. Начатая пачка дописывается.
func (w *OutboxWorker) Stop() {
	w.stop()
	w.wg.Wait()
}

// run разгребает остатки при старте, затем периодически возвращает зависшие события и опрашивает таблицу.
func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stopCtx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			if n, err := w.repo.ReclaimStale(ctx, w.staleAfter); err != nil {
				w.logger.Warnf("reclaim stale outbox events failed: %v", err)
			} else if n > 0 {
				w.logger.Infof("Reclaimed %d stale outbox events", n)
			}
			w.drain(ctx)
		}
	}
}

// listenOutboxNotifications держит LISTEN-соединение. Все ожидания прерываются по ctx или Stop,
// а drain получает исходный ctx.
func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopListen := context.AfterFunc(w.stopCtx, cancel)
	defer stopListen()

	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(listenCtx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(listenCtx, "LISTEN "+w.channel); err != nil {
			c.Close(context.Background())
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", w.channel)
		return nil
	}

	backoff := jitter.NewBackoff(2*time.Second, 30*time.Second)
	for conn == nil {
		if err := connect(); err != nil {
			w.logger.Warnf("LISTEN connect failed: %v", err)
			if !backoff.Sleep(listenCtx) {
				return
			}
		}
	}
	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()
	backoff.Reset()

	for listenCtx.Err() == nil {
		waitCtx, cancelWait := context.WithTimeout(listenCtx, notifyWaitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancelWait()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}

			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(context.Background())
			for {
				if !backoff.Sleep(listenCtx) {
					conn = nil
					return
				}
				if err := connect(); err == nil {
					backoff.Reset()
					break
				}
				w.logger.Warnf("Reconnect failed: %v", err)
			}
			continue
		}

		if notif != nil && notif.Channel == w.channel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// drain обрабатывает пачки, пока в outbox есть ожидающие события.
func (w *OutboxWorker) drain(ctx context.Context) {
	w.drainMu.Lock()
	defer w.drainMu.Unlock()

	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch отправляет пачку событий. Неотправленные события остаются в processing
// и возвращаются в очередь через ReclaimStale.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	sent := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			if isPermanentError(err) {
				w.logger.Errorf(err, "outbox event %s (%s) rejected by broker, parking as failed", event.EventID, event.EventType)
				if err := w.repo.MarkAsFailed(ctx, event.ID); err != nil {
					w.logger.Warnf("mark failed failed: %v", err)
				}
				continue
			}
			w.logger.Warnf("outbox event %s (%s) not sent, will retry: %v", event.EventID, event.EventType, err)
			continue
		}
		sent++
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	// Если ничего не ушло, брокер недоступен: ждём следующего тика вместо горячего цикла.
	return sent > 0 && len(events) == w.batchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event)); err != nil {
		return e.Wrap("kafka write", err)
	}
	return nil
}

// isPermanentError: повтор не поможет. Это событие, которое нельзя закодировать, или
// ошибка брокера без признака Temporary, например MessageSizeTooLarge. Сетевые ошибки
// и отмена контекста остаются временными.
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errMalformedEvent) {
		return true
	}

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) {
		for _, we := range writeErrs {
			if we != nil && !isPermanentError(we) {
				return false
			}
		}
		return writeErrs.Count() > 0
	}

	var kafkaErr kafka.Error
	if errors.As(err, &kafkaErr) {
		return !kafkaErr.Temporary()
	}

	return false
}
