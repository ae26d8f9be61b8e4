package domain

import (
	"time"

	"github.com/suchimauz/clinic-intake-router/internal/core/json_types"
)

// UserProfile ответ /User/login, из него начинается сессия
type UserProfile struct {
	UserID           json_types.ID `json:"userId"`
	UserName         string        `json:"userName"`
	RoleID           json_types.ID `json:"roleId"`
	BranchEmployeeID json_types.ID `json:"branchEmployeeId"`
	SupervisorSmid   json_types.ID `json:"supervisorSmid"`
	BranchID         json_types.ID `json:"branchId"`
	Token            string        `json:"token,omitempty"`
}

type SelectionKind string

const (
	SelectionTreatment    SelectionKind = "treatment"
	SelectionConsultation SelectionKind = "consultation"
)

func (k SelectionKind) Valid() bool {
	return k == SelectionTreatment || k == SelectionConsultation
}

func (k SelectionKind) AppointmentType() AppointmentType {
	if k == SelectionTreatment {
		return AppointmentTypeTreatment
	}
	return AppointmentTypeConsultation
}

func SelectionKindOf(t AppointmentType) SelectionKind {
	if t == AppointmentTypeTreatment {
		return SelectionTreatment
	}
	return SelectionConsultation
}

// Selection активная запись, с которой сейчас работает пользователь.
// В хранилище одновременно может быть только одна из двух.
type Selection struct {
	Kind          SelectionKind `json:"kind"`
	AppointmentID string        `json:"appointmentId"`
	DoctorName    string        `json:"doctorName,omitempty"`
}

type Session struct {
	ID               string     `json:"sessionId"`
	UserID           string     `json:"userId"`
	UserName         string     `json:"userName"`
	RoleID           RoleID     `json:"roleId"`
	BranchEmployeeID string     `json:"branchEmployeeId"`
	SupervisorSmid   string     `json:"supervisorSmid"`
	BranchID         string     `json:"branchId"`
	StartedAt        time.Time  `json:"startedAt"`
	Selection        *Selection `json:"selection,omitempty"`
}
