package out

import (
	"context"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

type CachePort interface {
	// Кэширование списков записей, ключ - путь запроса
	GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, bool)
	StoreAppointments(ctx context.Context, path string, records []domain.AppointmentRecord)
	InvalidateAppointments(ctx context.Context, path string)
	InvalidateAllAppointments(ctx context.Context)
}
