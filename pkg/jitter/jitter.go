// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы повторы публикации событий не приходили в брокер синхронно.
package jitter

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Backoff описывает экспоненциальную задержку с джиттером.
// Результат Delay лежит в диапазоне [d, d*(1+Factor)], где d = min(Base*2^attempt, Max).
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoff создаёт Backoff с глобальным источником случайности.
func NewBackoff(base, max time.Duration, factor float64) *Backoff {
	return &Backoff{
		Base:   base,
		Max:    max,
		Factor: factor,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewBackoffWithSeed нужен для детерминированных тестов.
func NewBackoffWithSeed(base, max time.Duration, factor float64, seed int64) *Backoff {
	b := NewBackoff(base, max, factor)
	b.rng = rand.New(rand.NewSource(seed))
	return b
}

// Delay возвращает задержку перед попыткой attempt (нумерация с нуля).
func (b *Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			d = b.Max
			break
		}
	}
	if d > b.Max {
		d = b.Max
	}

	b.mu.Lock()
	j := b.rng.Float64() * b.Factor * float64(d)
	b.mu.Unlock()

	return d + time.Duration(j)
}

// Wait ждёт Delay(attempt) или отмены контекста.
func (b *Backoff) Wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.Delay(attempt))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
