package intake_service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

func (s *IntakeService) DefaultView(ctx context.Context, sessionID string) (domain.DefaultView, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domain.DefaultView{}, err
	}
	return SelectDefaultView(session.RoleID), nil
}

func (s *IntakeService) PhotoMode(ctx context.Context, sessionID string, screen domain.PhotoScreen) (domain.PhotoMode, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return SelectMode(session.RoleID, screen)
}

// RouteAppointment нажатие на карточку: запись ищется в списке текущей сессии,
// выбор запоминается, возвращается экран назначения
func (s *IntakeService) RouteAppointment(ctx context.Context, sessionID string, kind domain.SelectionKind, appointmentID string) (*domain.RouteDecision, error) {
	if !kind.Valid() || appointmentID == "" {
		return nil, domain.ErrInvalidSelection
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	record, err := s.findAppointment(ctx, *session, kind.AppointmentType(), appointmentID)
	if err != nil {
		return nil, err
	}

	decision, err := Route(*record, Evaluate(*record), session.RoleID)
	if err != nil {
		s.logger.Warn("navigation.route.incomplete_record", out.LogFields{
			"sessionId":     sessionID,
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return nil, err
	}

	selection := domain.Selection{
		Kind:          kind,
		AppointmentID: record.AppointmentID().String(),
	}
	if kind == domain.SelectionTreatment {
		selection.DoctorName = record.DoctorName
	}
	if err := s.storeSelection(ctx, sessionID, selection); err != nil {
		return nil, err
	}

	s.metrics.RouteDecided(decision.Screen)
	s.logger.Info("navigation.route.decided", out.LogFields{
		"sessionId":     sessionID,
		"appointmentId": appointmentID,
		"screen":        decision.Screen,
	})

	return decision, nil
}

// Advance переход на следующий экран цепочки. Недостающие идентификаторы
// берутся из активной записи сессии.
func (s *IntakeService) Advance(ctx context.Context, sessionID string, from domain.ScreenName, params domain.RouteParams) (*domain.RouteDecision, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rc := routeContextFrom(params, session)

	decision, err := Advance(from, rc)
	if err != nil {
		s.logger.Warn("navigation.advance.failed", out.LogFields{
			"sessionId": sessionID,
			"from":      from,
			"error":     err.Error(),
		})
		return nil, err
	}

	// Экран мог работать с другой записью, чем сохранена в сессии
	if session.Selection == nil || session.Selection.AppointmentID != rc.AppointmentID ||
		session.Selection.Kind != domain.SelectionKindOf(rc.AppointmentType) {
		selection := domain.Selection{
			Kind:          domain.SelectionKindOf(rc.AppointmentType),
			AppointmentID: rc.AppointmentID,
		}
		if err := s.storeSelection(ctx, sessionID, selection); err != nil {
			return nil, err
		}
	}

	s.metrics.RouteDecided(decision.Screen)
	s.logger.Debug("navigation.advance.decided", out.LogFields{
		"sessionId": sessionID,
		"from":      from,
		"screen":    decision.Screen,
	})

	return decision, nil
}

func routeContextFrom(params domain.RouteParams, session *domain.Session) domain.RouteContext {
	rc := domain.RouteContext{
		CustomerID:     params[paramCustomerID],
		TreatmentID:    params[paramTreatmentID],
		ConsultationID: params[paramConsultationID],
		RoleID:         session.RoleID,
	}

	if t, ok := domain.ParseAppointmentType(params[paramAppointmentType]); ok {
		rc.AppointmentType = t
	}

	switch {
	case params[paramTreatmentAppointmentID] != "" && rc.AppointmentType != domain.AppointmentTypeConsultation:
		rc.AppointmentType = domain.AppointmentTypeTreatment
		rc.AppointmentID = params[paramTreatmentAppointmentID]
	case params[paramConsultationAppointmentID] != "" && rc.AppointmentType != domain.AppointmentTypeTreatment:
		rc.AppointmentType = domain.AppointmentTypeConsultation
		rc.AppointmentID = params[paramConsultationAppointmentID]
	// Выбор сессии подставляется только для того же типа записи, иначе в новый
	// сценарий попадет идентификатор предыдущей записи
	case session.Selection != nil &&
		(rc.AppointmentType == "" || rc.AppointmentType == session.Selection.Kind.AppointmentType()):
		rc.AppointmentType = session.Selection.Kind.AppointmentType()
		rc.AppointmentID = session.Selection.AppointmentID
	}

	return rc
}

func (s *IntakeService) findAppointment(ctx context.Context, session domain.Session, collection domain.AppointmentType, appointmentID string) (*domain.AppointmentRecord, error) {
	records, err := s.loadCollection(ctx, session, collection)
	if err != nil {
		s.logger.Error("navigation.appointments.fetch_failed", out.LogFields{
			"sessionId":  session.ID,
			"collection": collection,
			"error":      err.Error(),
		})
		return nil, err
	}

	record, found := lo.Find(records, func(record domain.AppointmentRecord) bool {
		return record.AppointmentID().String() == appointmentID
	})
	if !found {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrAppointmentNotFound, collection, appointmentID)
	}

	return &record, nil
}
