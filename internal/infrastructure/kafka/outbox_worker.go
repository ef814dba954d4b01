package kafka

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/jitter"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// OutboxWorker принимает события склада в ограниченную очередь в памяти и
// публикует их в фоне. Publish не блокирует: при переполнении событие отбрасывается.
type OutboxWorker struct {
	queue      chan *usecase.LedgerEvent
	producer   usecase.MessageProducer
	logger     logger.Logger
	backoff    *jitter.Backoff
	maxRetries int

	mu      sync.RWMutex
	closed  bool
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// OutboxStats — счётчики работы outbox.
type OutboxStats struct {
	Published int64
	Failed    int64
	Dropped   int64
}

func NewOutboxWorker(
	producer usecase.MessageProducer,
	logger logger.Logger,
	size int,
	maxRetries int,
	backoff *jitter.Backoff,
) *OutboxWorker {
	if size <= 0 {
		size = 1
	}

	return &OutboxWorker{
		queue:      make(chan *usecase.LedgerEvent, size),
		producer:   producer,
		logger:     logger,
		backoff:    backoff,
		maxRetries: maxRetries,
	}
}

// Publish ставит событие в очередь.
func (w *OutboxWorker) Publish(event *usecase.LedgerEvent) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.dropped.Add(1)
		return e.ErrOutboxStopped
	}

	select {
	case w.queue <- event:
		return nil
	default:
		w.dropped.Add(1)
		return e.ErrOutboxFull
	}
}

// Start запускает фоновую публикацию. Повторный вызов ничего не делает.
func (w *OutboxWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop перестаёт принимать события и дожидается отправки очереди.
// Если ctx истекает раньше, оставшиеся отправки прерываются.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	started, cancel := w.started, w.cancel
	w.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

// Stats возвращает текущие счётчики.
func (w *OutboxWorker) Stats() OutboxStats {
	return OutboxStats{
		Published: w.published.Load(),
		Failed:    w.failed.Load(),
		Dropped:   w.dropped.Load(),
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	for event := range w.queue {
		if ctx.Err() != nil {
			w.failed.Add(1)
			continue
		}

		if err := w.processEvent(ctx, event); err != nil {
			w.failed.Add(1)
			w.logger.Warnf("failed to publish %s event %s: %v", event.Type, event.ID, err)
			continue
		}
		w.published.Add(1)
	}
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.LedgerEvent) error {
	req := usecase.NewWriteMessageReq(event)

	for attempt := 0; ; attempt++ {
		err := w.producer.WriteMessage(ctx, req)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return e.Wrap("permanent kafka failure", err)
		}
		if attempt >= w.maxRetries {
			return e.Wrap("kafka retries exhausted", err)
		}

		w.logger.Debugf("temporary kafka failure for event %s, attempt %d: %v", event.ID, attempt+1, err)
		if err := w.backoff.Wait(ctx, attempt); err != nil {
			return e.Wrap("kafka retry interrupted", err)
		}
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}
