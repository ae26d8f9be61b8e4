package intake_service

import (
	"time"

	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

type IntakeService struct {
	clinicPort  out.ClinicPort
	cachePort   out.CachePort
	sessionPort out.SessionStorePort
	metrics     out.MetricsPort
	logger      out.LoggerPort
	now         func() time.Time
}

// NewIntakeService cachePort может быть nil, тогда списки всегда запрашиваются у сервера
func NewIntakeService(
	clinicPort out.ClinicPort,
	cachePort out.CachePort,
	sessionPort out.SessionStorePort,
	metrics out.MetricsPort,
	logger out.LoggerPort,
) *IntakeService {
	if metrics == nil {
		metrics = out.NopMetrics{}
	}

	return &IntakeService{
		clinicPort:  clinicPort,
		cachePort:   cachePort,
		sessionPort: sessionPort,
		metrics:     metrics,
		logger:      logger.WithModule("IntakeService"),
		now:         time.Now,
	}
}
