package session

import (
	"context"
	"errors"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

// MemorySessionAdapter хранилище сессий в памяти процесса, для одного экземпляра сервиса
type MemorySessionAdapter struct {
	mu     sync.Mutex
	values *expirable.LRU[string, string]
	logger out.LoggerPort
}

func NewMemorySessionAdapter(cfg *config.Config, logger out.LoggerPort) (*MemorySessionAdapter, error) {
	if cfg.Session.Size <= 0 {
		return nil, errors.New("session store size must be positive")
	}

	return &MemorySessionAdapter{
		values: expirable.NewLRU[string, string](cfg.Session.Size, nil, cfg.Session.TTL),
		logger: logger.WithModule("MemorySessionAdapter"),
	}, nil
}

func (a *MemorySessionAdapter) Get(ctx context.Context, key string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	value, ok := a.values.Get(key)
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (a *MemorySessionAdapter) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	values := make(map[string]string, len(keys))
	for _, k := range keys {
		if value, ok := a.values.Get(k); ok {
			values[k] = value
		}
	}
	return values, nil
}

func (a *MemorySessionAdapter) Set(ctx context.Context, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.values.Add(key, value)
	return nil
}

func (a *MemorySessionAdapter) SetExclusive(ctx context.Context, key, value string, exclusive ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, k := range exclusive {
		a.values.Remove(k)
	}
	a.values.Add(key, value)

	a.logger.Debug("session.store.set_exclusive", out.LogFields{
		"key":     key,
		"cleared": exclusive,
	})
	return nil
}

func (a *MemorySessionAdapter) Delete(ctx context.Context, keys ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, k := range keys {
		a.values.Remove(k)
	}
	return nil
}
