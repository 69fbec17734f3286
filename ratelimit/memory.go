package ratelimit

import (
	"context"
	"sync"
	"time"
)

type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		clients: make(map[string]*clientWindow),
	}
}

func (l *MemoryLimiter) CheckAndIncrement(_ context.Context, key string, limit int, window time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cw, exists := l.clients[key]

	if !exists || now.After(cw.windowEnd) {
		l.clients[key] = &clientWindow{
			count:     1,
			windowEnd: now.Add(window),
		}
		return nil
	}

	if cw.count >= limit {
		return ErrLimitExceeded
	}

	cw.count++
	return nil
}
