package cache

import (
	"errors"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

type appointmentsCache struct {
	mu    sync.RWMutex
	cache *expirable.LRU[string, []domain.AppointmentRecord]
}

type CacheAdapter struct {
	cfg               *config.Config
	appointmentsCache *appointmentsCache
	logger            out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if cfg.Cache.AppointmentSize <= 0 {
		logger.Error("cache.init.failed", out.LogFields{
			"size": cfg.Cache.AppointmentSize,
		})
		return nil, errors.New("cache size must be positive")
	}

	return &CacheAdapter{
		cfg: cfg,
		appointmentsCache: &appointmentsCache{
			// TTL страхует от потерянных событий сброса
			cache: expirable.NewLRU[string, []domain.AppointmentRecord](cfg.Cache.AppointmentSize, nil, cfg.Cache.AppointmentTTL),
		},
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}
