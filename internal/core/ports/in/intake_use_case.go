package in

import (
	"context"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

type IntakeUseCase interface {
	// Жизненный цикл сессии: вход, чтение, выход
	StartSession(ctx context.Context, username, password string) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	// Активная запись сессии, выбор одного типа сбрасывает другой
	SelectAppointment(ctx context.Context, sessionID string, selection domain.Selection) error
	GetSelection(ctx context.Context, sessionID string) (*domain.Selection, error)

	// Политика роли
	DefaultView(ctx context.Context, sessionID string) (domain.DefaultView, error)
	PhotoMode(ctx context.Context, sessionID string, screen domain.PhotoScreen) (domain.PhotoMode, error)

	// Списки записей и переходы между экранами
	Dashboard(ctx context.Context, sessionID string, query domain.DashboardQuery) (*domain.DashboardView, error)
	RouteAppointment(ctx context.Context, sessionID string, kind domain.SelectionKind, appointmentID string) (*domain.RouteDecision, error)
	Advance(ctx context.Context, sessionID string, from domain.ScreenName, params domain.RouteParams) (*domain.RouteDecision, error)

	// Сброс кэша по событиям
	InvalidateAppointmentsCache(ctx context.Context, path string) error
	InvalidateAllAppointmentsCache(ctx context.Context) error
}
