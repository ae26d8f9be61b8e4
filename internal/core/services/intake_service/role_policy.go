package intake_service

import (
	"fmt"

	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

const (
	consultationPathPrefix = "/TreatmentAppointment/consultation"
	treatmentPathPrefix    = "/TreatmentAppointment/treatment"
)

var defaultPolicy = domain.RolePolicy{
	Name:              "default",
	View:              domain.DefaultView{View: domain.ViewConsultation},
	ConsultationScope: domain.FetchScopeEmployee,
	TreatmentScope:    domain.FetchScopeEmployee,
	BeforePhotoMode:   domain.PhotoModeUpload,
	AfterPhotoMode:    domain.PhotoModeUpload,
}

var adminPolicy = domain.RolePolicy{
	Name:              "admin",
	View:              domain.DefaultView{View: domain.ViewConsultation},
	ConsultationScope: domain.FetchScopeAll,
	TreatmentScope:    domain.FetchScopeAll,
	BranchFilter:      true,
	BeforePhotoMode:   domain.PhotoModeUpload,
	AfterPhotoMode:    domain.PhotoModeUpload,
}

var rolePolicies = map[domain.RoleID]domain.RolePolicy{
	domain.RoleAdmin:      adminPolicy,
	domain.RoleSuperAdmin: adminPolicy,
	domain.RoleBranchEmployee: {
		Name:               "branch_employee",
		View:               domain.DefaultView{View: domain.ViewConsultation},
		ConsultationScope:  domain.FetchScopeEmployee,
		TreatmentScope:     domain.FetchScopeEmployee,
		IntakeCompleteOnly: true,
		BeforePhotoMode:    domain.PhotoModeUpload,
		AfterPhotoMode:     domain.PhotoModeViewOnly,
	},
	domain.RoleSupervisor: {
		Name:               "supervisor",
		View:               domain.DefaultView{View: domain.ViewConsultation, Locked: true},
		ConsultationScope:  domain.FetchScopeEmployee,
		TreatmentScope:     domain.FetchScopeSupervisor,
		BranchFilter:       true,
		IntakeCompleteOnly: true,
		BeforePhotoMode:    domain.PhotoModeUpload,
		AfterPhotoMode:     domain.PhotoModeViewOnly,
	},
	domain.RoleNurse: {
		Name:                      "nurse",
		View:                      domain.DefaultView{View: domain.ViewTreatment, Locked: true},
		ConsultationScope:         domain.FetchScopeEmployee,
		TreatmentScope:            domain.FetchScopeSupervisor,
		BranchFilter:              true,
		IntakeCompleteOnly:        true,
		SkipIntakeWhenPhotosTaken: true,
		BeforePhotoMode:           domain.PhotoModeUpload,
		AfterPhotoMode:            domain.PhotoModeUpload,
	},
	domain.RoleTherapist: {
		Name:                      "therapist",
		View:                      domain.DefaultView{View: domain.ViewTreatment, Locked: true},
		ConsultationScope:         domain.FetchScopeEmployee,
		TreatmentScope:            domain.FetchScopeTherapist,
		IntakeCompleteOnly:        true,
		SkipIntakeWhenPhotosTaken: true,
		BeforePhotoMode:           domain.PhotoModeUpload,
		AfterPhotoMode:            domain.PhotoModeUpload,
	},
}

// PolicyFor неизвестная роль получает политику по умолчанию: свободное переключение
// и загрузку фото. Роль влияет только на отображение, права проверяет сервер.
func PolicyFor(roleID domain.RoleID) domain.RolePolicy {
	if policy, ok := rolePolicies[roleID]; ok {
		return policy
	}
	return defaultPolicy
}

func SelectDefaultView(roleID domain.RoleID) domain.DefaultView {
	return PolicyFor(roleID).View
}

// ResolveView заблокированная роль всегда получает свой вид, остальные - запрошенный или вид по умолчанию
func ResolveView(roleID domain.RoleID, requested domain.ViewType) domain.DefaultView {
	view := SelectDefaultView(roleID)
	if view.Locked {
		return view
	}
	if requested == domain.ViewConsultation || requested == domain.ViewTreatment {
		view.View = requested
	}
	return view
}

func SelectMode(roleID domain.RoleID, screen domain.PhotoScreen) (domain.PhotoMode, error) {
	policy := PolicyFor(roleID)
	switch screen {
	case domain.PhotoScreenBefore:
		return policy.BeforePhotoMode, nil
	case domain.PhotoScreenAfter:
		return policy.AfterPhotoMode, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownScreen, screen)
}

// AppointmentsPath путь запроса списка записей для сессии, false - путь не определить
func AppointmentsPath(session domain.Session, collection domain.AppointmentType) (string, bool) {
	policy := PolicyFor(session.RoleID)

	if collection == domain.AppointmentTypeConsultation {
		switch policy.ConsultationScope {
		case domain.FetchScopeAll:
			return consultationPathPrefix + "/All", true
		default:
			return scopedPath(consultationPathPrefix, session.BranchEmployeeID)
		}
	}

	switch policy.TreatmentScope {
	case domain.FetchScopeAll:
		return treatmentPathPrefix + "/All", true
	case domain.FetchScopeSupervisor:
		return scopedPath(treatmentPathPrefix, session.SupervisorSmid)
	case domain.FetchScopeTherapist:
		return scopedPath(treatmentPathPrefix+"/therapist", session.BranchEmployeeID)
	default:
		return scopedPath(treatmentPathPrefix, session.BranchEmployeeID)
	}
}

func scopedPath(prefix, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	return prefix + "/" + id, true
}
