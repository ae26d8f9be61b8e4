package out

import "github.com/suchimauz/clinic-intake-router/internal/core/domain"

type MetricsPort interface {
	RouteDecided(screen domain.ScreenName)
	BackendFetched(collection domain.AppointmentType, ok bool)
}

type NopMetrics struct{}

func (NopMetrics) RouteDecided(domain.ScreenName) {}

func (NopMetrics) BackendFetched(domain.AppointmentType, bool) {}
