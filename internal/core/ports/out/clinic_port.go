package out

import (
	"context"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

type ClinicPort interface {
	// Вход пользователя, возвращает профиль с ролью
	Login(ctx context.Context, username, password string) (*domain.UserProfile, error)

	// Список записей по пути /TreatmentAppointment/...
	GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, error)
}
