package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Closer закрывает зарегистрированные ресурсы в порядке LIFO.
type Closer struct {
	items         []item
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type item struct {
	name string
	f    Func
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие оставшихся ресурсов, если контекст Close истёк.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс. name попадает в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item{name: name, f: f})
}

// Close закрывает ресурсы в обратном порядке регистрации. Повторные вызовы ничего не делают.
// Если ctx отменяется до завершения, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		items := make([]item, len(c.items))
		copy(items, c.items)
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, items)
		if stopIdx < 0 {
			err = errors.Join(errs...)
			return
		}

		errs = append(errs, c.forcedClose(items[:stopIdx+1])...)
		err = fmt.Errorf("shutdown interrupted after %d/%d resources", len(items)-1-stopIdx, len(items))
		if len(errs) > 0 {
			err = fmt.Errorf("%w: %w", err, errors.Join(errs...))
		}
	})

	return err
}

// gracefulClose возвращает -1, если все ресурсы закрыты, иначе индекс ресурса, на котором истёк ctx.
func (c *Closer) gracefulClose(ctx context.Context, items []item) (int, []error) {
	var errs []error
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		done := make(chan error, 1)

		go func() {
			done <- it.f(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", it.name, err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}

	return -1, errs
}

func (c *Closer) forcedClose(items []item) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, it := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := it.f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("[forced] %s: %w", it.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
