package cache

import (
	"context"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

// Кэширование списков записей

func (c *CacheAdapter) GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, bool) {
	if !c.cfg.Cache.Enabled {
		c.logger.Debug("cache.appointments.get.disabled", out.LogFields{
			"path": path,
		})
		return nil, false
	}

	c.appointmentsCache.mu.RLock()
	defer c.appointmentsCache.mu.RUnlock()

	records, exists := c.appointmentsCache.cache.Get(path)
	if !exists {
		c.logger.Debug("cache.appointments.get.miss", out.LogFields{
			"path": path,
		})
		return nil, false
	}

	c.logger.Debug("cache.appointments.get.hit", out.LogFields{
		"path":  path,
		"count": len(records),
	})

	// Копия, чтобы вызывающий не испортил закэшированный список
	return append([]domain.AppointmentRecord(nil), records...), true
}

func (c *CacheAdapter) StoreAppointments(ctx context.Context, path string, records []domain.AppointmentRecord) {
	if !c.cfg.Cache.Enabled {
		return
	}

	c.appointmentsCache.mu.Lock()
	defer c.appointmentsCache.mu.Unlock()

	c.logger.Debug("cache.appointments.store", out.LogFields{
		"path":  path,
		"count": len(records),
	})

	c.appointmentsCache.cache.Add(path, append([]domain.AppointmentRecord(nil), records...))
}

func (c *CacheAdapter) InvalidateAppointments(ctx context.Context, path string) {
	if !c.cfg.Cache.Enabled {
		return
	}

	c.appointmentsCache.mu.Lock()
	defer c.appointmentsCache.mu.Unlock()

	c.appointmentsCache.cache.Remove(path)
}

func (c *CacheAdapter) InvalidateAllAppointments(ctx context.Context) {
	if !c.cfg.Cache.Enabled {
		return
	}

	c.appointmentsCache.mu.Lock()
	defer c.appointmentsCache.mu.Unlock()

	c.appointmentsCache.cache.Purge()
}
