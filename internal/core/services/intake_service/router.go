package intake_service

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

const (
	paramCustomerID                = "customerId"
	paramAppointmentType           = "appointmentType"
	paramTreatmentID               = "treatmentId"
	paramConsultationID            = "consultationId"
	paramTreatmentAppointmentID    = "treatmentAppointmentId"
	paramConsultationAppointmentID = "consultationAppointmentId"
	paramFromPage                  = "fromPage"
	paramMode                      = "mode"
	paramInitialStatus             = "initialStatus"
	paramBeforePhotoStatus         = "beforePhotoStatus"
)

var (
	treatmentFlow = []domain.ScreenName{
		domain.ScreenProfilePicture,
		domain.ScreenConsentForm,
		domain.ScreenBeforePhoto,
		domain.ScreenTreatmentSession,
		domain.ScreenAfterPhoto,
		domain.ScreenFeedback,
		domain.ScreenAppointments,
	}
	consultationFlow = []domain.ScreenName{
		domain.ScreenProfilePicture,
		domain.ScreenConsentForm,
		domain.ScreenConsultationPhoto,
		domain.ScreenAfterConsultation,
		domain.ScreenAppointments,
	}
)

// Route решает, куда ведет нажатие на карточку записи на главном экране
func Route(record domain.AppointmentRecord, progress domain.Progress, roleID domain.RoleID) (*domain.RouteDecision, error) {
	rc := domain.RouteContext{
		AppointmentType: record.AppointmentType,
		CustomerID:      record.CustomerID.String(),
		AppointmentID:   record.AppointmentID().String(),
		TreatmentID:     record.TreatmentID.String(),
		ConsultationID:  record.DepartmentID.String(),
		RoleID:          roleID,
	}

	params, err := baseParams(rc)
	if err != nil {
		return nil, err
	}
	params[paramFromPage] = string(domain.ScreenDashboard)

	policy := PolicyFor(roleID)
	isTreatment := record.AppointmentType == domain.AppointmentTypeTreatment

	// Фото уже есть - повторно анкету не проходим
	if isTreatment && policy.SkipIntakeWhenPhotosTaken && progress.PhotosDone {
		return decide(domain.ScreenAppointments, params), nil
	}

	if !record.HasProfilePicture() {
		return decide(domain.ScreenProfilePicture, params), nil
	}

	if !progress.IntakeComplete() {
		params[paramInitialStatus] = string(record.InitialStatus)
		params[paramBeforePhotoStatus] = string(record.BeforePhotoStatus)
		return decide(domain.ScreenConsentForm, params), nil
	}

	if isTreatment {
		if !progress.HasBeforePhoto {
			params[paramMode] = string(policy.BeforePhotoMode)
			return decide(domain.ScreenBeforePhoto, params), nil
		}
		return decide(domain.ScreenTreatmentSession, params), nil
	}

	if !progress.PhotosDone {
		return decide(domain.ScreenConsultationPhoto, params), nil
	}
	return decide(domain.ScreenAfterConsultation, params), nil
}

// Advance следующий шаг линейной цепочки после экрана from
func Advance(from domain.ScreenName, rc domain.RouteContext) (*domain.RouteDecision, error) {
	params, err := baseParams(rc)
	if err != nil {
		return nil, err
	}

	flow := consultationFlow
	if rc.AppointmentType == domain.AppointmentTypeTreatment {
		flow = treatmentFlow
	}

	index := lo.IndexOf(flow, from)
	if index == -1 || index == len(flow)-1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoNextScreen, from)
	}
	next := flow[index+1]

	policy := PolicyFor(rc.RoleID)
	switch next {
	case domain.ScreenBeforePhoto:
		params[paramMode] = string(policy.BeforePhotoMode)
	case domain.ScreenAfterPhoto:
		params[paramMode] = string(policy.AfterPhotoMode)
	}
	params[paramFromPage] = string(from)

	return decide(next, params), nil
}

func baseParams(rc domain.RouteContext) (domain.RouteParams, error) {
	if rc.CustomerID == "" || rc.AppointmentID == "" {
		return nil, domain.ErrIncompleteRecord
	}

	params := domain.RouteParams{
		paramCustomerID: rc.CustomerID,
	}

	switch rc.AppointmentType {
	case domain.AppointmentTypeTreatment:
		params[paramTreatmentAppointmentID] = rc.AppointmentID
	case domain.AppointmentTypeConsultation:
		params[paramConsultationAppointmentID] = rc.AppointmentID
	default:
		return nil, fmt.Errorf("%w: unknown appointment type %q", domain.ErrIncompleteRecord, rc.AppointmentType)
	}
	params[paramAppointmentType] = string(rc.AppointmentType)

	if rc.TreatmentID != "" {
		params[paramTreatmentID] = rc.TreatmentID
	}
	if rc.ConsultationID != "" {
		params[paramConsultationID] = rc.ConsultationID
	}

	return params, nil
}

func decide(screen domain.ScreenName, params domain.RouteParams) *domain.RouteDecision {
	return &domain.RouteDecision{Screen: screen, Params: params}
}
