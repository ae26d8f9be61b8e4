package intake_service

import (
	"sync"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

// dashboardDebug собирает замеры из параллельных загрузок
type dashboardDebug struct {
	enabled bool
	mu      sync.Mutex
	data    []domain.DebugInfo
}

func (d *dashboardDebug) add(info domain.DebugInfo) {
	if !d.enabled {
		return
	}
	d.mu.Lock()
	d.data = append(d.data, info)
	d.mu.Unlock()
}

func (d *dashboardDebug) collected() []domain.DebugInfo {
	if !d.enabled {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.DebugInfo(nil), d.data...)
}
