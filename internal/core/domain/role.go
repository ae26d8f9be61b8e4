package domain

import (
	"strconv"
	"strings"
)

type RoleID int

const (
	RoleAdmin          RoleID = 8
	RoleSuperAdmin     RoleID = 15
	RoleBranchEmployee RoleID = 17
	RoleSupervisor     RoleID = 19
	RoleNurse          RoleID = 20
	RoleTherapist      RoleID = 21
)

// ParseRoleID роль хранится строкой, нечисловое значение считаем неизвестной ролью
func ParseRoleID(value string) RoleID {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return RoleID(id)
}

func (r RoleID) String() string {
	return strconv.Itoa(int(r))
}

type ViewType string

const (
	ViewConsultation ViewType = "consultation"
	ViewTreatment    ViewType = "treatment"
)

func ParseViewType(value string) (ViewType, bool) {
	switch ViewType(strings.ToLower(strings.TrimSpace(value))) {
	case ViewConsultation:
		return ViewConsultation, true
	case ViewTreatment:
		return ViewTreatment, true
	}
	return "", false
}

func (v ViewType) AppointmentType() AppointmentType {
	if v == ViewTreatment {
		return AppointmentTypeTreatment
	}
	return AppointmentTypeConsultation
}

type PhotoScreen string

const (
	PhotoScreenBefore PhotoScreen = "before-photo"
	PhotoScreenAfter  PhotoScreen = "after-photo"
)

type PhotoMode string

const (
	PhotoModeUpload   PhotoMode = "upload"
	PhotoModeViewOnly PhotoMode = "view-only"
)

// FetchScope чьи записи запрашиваются у сервера
type FetchScope string

const (
	FetchScopeAll        FetchScope = "all"
	FetchScopeEmployee   FetchScope = "employee"
	FetchScopeSupervisor FetchScope = "supervisor"
	FetchScopeTherapist  FetchScope = "therapist"
)

type DefaultView struct {
	View   ViewType `json:"view"`
	Locked bool     `json:"locked"`
}

type RolePolicy struct {
	Name              string
	View              DefaultView
	ConsultationScope FetchScope
	TreatmentScope    FetchScope
	// Оставлять только записи своего филиала
	BranchFilter bool
	// Показывать только записи с заполненной анкетой и согласием
	IntakeCompleteOnly bool
	// Лечение с уже сделанными фото сразу ведет в список процедур
	SkipIntakeWhenPhotosTaken bool
	BeforePhotoMode           PhotoMode
	AfterPhotoMode            PhotoMode
}
