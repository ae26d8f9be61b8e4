package intake_service

import (
	"context"

	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

func (s *IntakeService) InvalidateAppointmentsCache(ctx context.Context, path string) error {
	if s.cachePort == nil {
		return nil
	}

	s.cachePort.InvalidateAppointments(ctx, path)
	s.logger.Info("cache.appointments.invalidated", out.LogFields{
		"path": path,
	})
	return nil
}

func (s *IntakeService) InvalidateAllAppointmentsCache(ctx context.Context) error {
	if s.cachePort == nil {
		return nil
	}

	s.cachePort.InvalidateAllAppointments(ctx)
	s.logger.Info("cache.appointments.invalidated_all", nil)
	return nil
}
