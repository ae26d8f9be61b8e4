package intake_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

const (
	keyStartedAt                 = "startedAt"
	keyUserID                    = "userId"
	keyUserName                  = "userName"
	keyRoleID                    = "roleId"
	keyBranchEmployeeID          = "branchEmployeeId"
	keySupervisorSmid            = "supervisorSmid"
	keyBranchID                  = "branchId"
	keyTreatmentAppointmentID    = "treatmentAppointmentId"
	keyConsultationAppointmentID = "consultationAppointmentId"
	keyTreatmentDoctorName       = "treatment_doctorName"
)

var sessionKeys = []string{
	keyStartedAt,
	keyUserID,
	keyUserName,
	keyRoleID,
	keyBranchEmployeeID,
	keySupervisorSmid,
	keyBranchID,
	keyTreatmentAppointmentID,
	keyConsultationAppointmentID,
	keyTreatmentDoctorName,
}

func sessionKey(sessionID, name string) string {
	return "session:" + sessionID + ":" + name
}

func (s *IntakeService) StartSession(ctx context.Context, username, password string) (*domain.Session, error) {
	profile, err := s.clinicPort.Login(ctx, username, password)
	if err != nil {
		s.logger.Error("session.start.login_failed", out.LogFields{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	session := domain.Session{
		ID:               uuid.NewString(),
		UserID:           profile.UserID.String(),
		UserName:         profile.UserName,
		RoleID:           domain.ParseRoleID(profile.RoleID.String()),
		BranchEmployeeID: profile.BranchEmployeeID.String(),
		SupervisorSmid:   profile.SupervisorSmid.String(),
		BranchID:         profile.BranchID.String(),
		StartedAt:        s.now().UTC(),
	}

	// Маркер существования сессии пишем последним
	values := []struct{ name, value string }{
		{keyUserID, session.UserID},
		{keyUserName, session.UserName},
		{keyRoleID, session.RoleID.String()},
		{keyBranchEmployeeID, session.BranchEmployeeID},
		{keySupervisorSmid, session.SupervisorSmid},
		{keyBranchID, session.BranchID},
		{keyStartedAt, session.StartedAt.Format(time.RFC3339)},
	}
	for _, kv := range values {
		if err := s.sessionPort.Set(ctx, sessionKey(session.ID, kv.name), kv.value); err != nil {
			s.logger.Error("session.start.store_failed", out.LogFields{
				"sessionId": session.ID,
				"key":       kv.name,
				"error":     err.Error(),
			})
			return nil, fmt.Errorf("store session %s: %w", kv.name, err)
		}
	}

	policy := PolicyFor(session.RoleID)
	s.logger.Info("session.started", out.LogFields{
		"sessionId": session.ID,
		"userId":    session.UserID,
		"roleId":    session.RoleID,
		"policy":    policy.Name,
	})

	return &session, nil
}

func (s *IntakeService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	keys := make([]string, 0, len(sessionKeys))
	for _, name := range sessionKeys {
		keys = append(keys, sessionKey(sessionID, name))
	}

	stored, err := s.sessionPort.GetMany(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	values := make(map[string]string, len(stored))
	for _, name := range sessionKeys {
		if value, ok := stored[sessionKey(sessionID, name)]; ok {
			values[name] = value
		}
	}

	startedAt, ok := values[keyStartedAt]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{
		ID:               sessionID,
		UserID:           values[keyUserID],
		UserName:         values[keyUserName],
		RoleID:           domain.ParseRoleID(values[keyRoleID]),
		BranchEmployeeID: values[keyBranchEmployeeID],
		SupervisorSmid:   values[keySupervisorSmid],
		BranchID:         values[keyBranchID],
	}
	if parsed, err := time.Parse(time.RFC3339, startedAt); err == nil {
		session.StartedAt = parsed
	}
	session.Selection = s.selectionFromValues(sessionID, values)

	return session, nil
}

// EndSession выход: удаляются все ключи сессии, повторный вызов не ошибка
func (s *IntakeService) EndSession(ctx context.Context, sessionID string) error {
	keys := make([]string, 0, len(sessionKeys))
	for _, name := range sessionKeys {
		keys = append(keys, sessionKey(sessionID, name))
	}

	if err := s.sessionPort.Delete(ctx, keys...); err != nil {
		s.logger.Error("session.end.failed", out.LogFields{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return err
	}

	s.logger.Info("session.ended", out.LogFields{
		"sessionId": sessionID,
	})
	return nil
}

// SelectAppointment выбор записи одного типа в той же операции удаляет выбор другого типа
func (s *IntakeService) SelectAppointment(ctx context.Context, sessionID string, selection domain.Selection) error {
	if !selection.Kind.Valid() || selection.AppointmentID == "" {
		return domain.ErrInvalidSelection
	}

	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}

	return s.storeSelection(ctx, sessionID, selection)
}

func (s *IntakeService) storeSelection(ctx context.Context, sessionID string, selection domain.Selection) error {
	treatmentKey := sessionKey(sessionID, keyTreatmentAppointmentID)
	consultationKey := sessionKey(sessionID, keyConsultationAppointmentID)
	doctorKey := sessionKey(sessionID, keyTreatmentDoctorName)

	var err error
	switch selection.Kind {
	case domain.SelectionTreatment:
		// Имя врача предыдущей процедуры удаляется вместе со сменой выбора
		err = s.sessionPort.SetExclusive(ctx, treatmentKey, selection.AppointmentID, consultationKey, doctorKey)
		if err == nil && selection.DoctorName != "" {
			err = s.sessionPort.Set(ctx, doctorKey, selection.DoctorName)
		}
	case domain.SelectionConsultation:
		err = s.sessionPort.SetExclusive(ctx, consultationKey, selection.AppointmentID, treatmentKey, doctorKey)
	}

	if err != nil {
		s.logger.Error("session.selection.store_failed", out.LogFields{
			"sessionId":     sessionID,
			"kind":          selection.Kind,
			"appointmentId": selection.AppointmentID,
			"error":         err.Error(),
		})
		return err
	}

	s.logger.Debug("session.selection.stored", out.LogFields{
		"sessionId":     sessionID,
		"kind":          selection.Kind,
		"appointmentId": selection.AppointmentID,
	})
	return nil
}

func (s *IntakeService) GetSelection(ctx context.Context, sessionID string) (*domain.Selection, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Selection == nil {
		return nil, domain.ErrNoSelection
	}
	return session.Selection, nil
}

func (s *IntakeService) selectionFromValues(sessionID string, values map[string]string) *domain.Selection {
	treatmentID, hasTreatment := values[keyTreatmentAppointmentID]
	consultationID, hasConsultation := values[keyConsultationAppointmentID]

	if hasTreatment && hasConsultation {
		s.logger.Warn("session.selection.both_present", out.LogFields{
			"sessionId":                 sessionID,
			"treatmentAppointmentId":    treatmentID,
			"consultationAppointmentId": consultationID,
		})
	}

	switch {
	case hasTreatment:
		return &domain.Selection{
			Kind:          domain.SelectionTreatment,
			AppointmentID: treatmentID,
			DoctorName:    values[keyTreatmentDoctorName],
		}
	case hasConsultation:
		return &domain.Selection{
			Kind:          domain.SelectionConsultation,
			AppointmentID: consultationID,
		}
	}
	return nil
}
