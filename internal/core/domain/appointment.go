package domain

import (
	"encoding/json"
	"strings"

	"github.com/suchimauz/clinic-intake-router/internal/core/json_types"
)

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "Consultation"
	AppointmentTypeTreatment    AppointmentType = "Treatment"
)

func ParseAppointmentType(value string) (AppointmentType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "consultation":
		return AppointmentTypeConsultation, true
	case "treatment":
		return AppointmentTypeTreatment, true
	}
	return "", false
}

func (t *AppointmentType) UnmarshalJSON(data []byte) error {
	var raw json_types.Loose
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// Неизвестный тип оставляем пустым, сервис подставит тип коллекции, из которой пришла запись
	*t, _ = ParseAppointmentType(raw.String())
	return nil
}

type CustomerTier string

const (
	CustomerTierVVIP        CustomerTier = "VVIP"
	CustomerTierVIP         CustomerTier = "VIP"
	CustomerTierTopSpender  CustomerTier = "TOP-SPENDER"
	CustomerTierLoyal       CustomerTier = "LOYAL"
	CustomerTierUnspecified CustomerTier = ""
)

func ParseCustomerTier(value string) CustomerTier {
	switch tier := CustomerTier(strings.ToUpper(strings.TrimSpace(value))); tier {
	case CustomerTierVVIP, CustomerTierVIP, CustomerTierTopSpender, CustomerTierLoyal:
		return tier
	}
	return CustomerTierUnspecified
}

func (t *CustomerTier) UnmarshalJSON(data []byte) error {
	var raw json_types.Loose
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseCustomerTier(raw.String())
	return nil
}

// Badge цвет плашки клиента на карточке, пустая строка - без плашки
func (t CustomerTier) Badge() string {
	switch t {
	case CustomerTierVVIP:
		return "#ffbb00"
	case CustomerTierVIP:
		return "#00bd1c"
	case CustomerTierTopSpender:
		return "#C0C0C0"
	case CustomerTierLoyal:
		return "#0077A8"
	}
	return ""
}

// AppointmentRecord запись из /TreatmentAppointment/*, клиент ее никогда не изменяет
type AppointmentRecord struct {
	ID           json_types.ID `json:"id"`
	CustomerID   json_types.ID `json:"customerId"`
	TreatmentID  json_types.ID `json:"treatmentId"`
	DepartmentID json_types.ID `json:"departmentId"`
	BranchID     json_types.ID `json:"branchId"`

	// Заполняются локально из ID в зависимости от коллекции
	ConsultationAppointmentID json_types.ID `json:"consultationAppointmentId"`
	TreatmentAppointmentID    json_types.ID `json:"treatmentAppointmentId"`

	AppointmentType AppointmentType  `json:"appointmentType"`
	EntryStatus     json_types.Loose `json:"entryStatus"`

	InitialStatus     InitialStatus `json:"initialStatus"`
	ConsentStatus     ConsentStatus `json:"consentStatus"`
	PhotoStatus       PhotoStatus   `json:"photoStatus"`
	BeforePhotoStatus PhotoStatus   `json:"beforePhotoStatus"`
	AfterPhotoStatus  PhotoStatus   `json:"afterPhotoStatus"`

	CustomerType   CustomerTier `json:"customerType"`
	CustomerFName  string       `json:"customerFName"`
	CustomerLName  string       `json:"customerLName"`
	DoctorName     string       `json:"doctorName"`
	ProfilePicture string       `json:"profilePicture"`
}

func (r AppointmentRecord) FullName() string {
	return strings.TrimSpace(r.CustomerFName + " " + r.CustomerLName)
}

// AppointmentID идентификатор записи в зависимости от ее типа
func (r AppointmentRecord) AppointmentID() json_types.ID {
	if r.AppointmentType == AppointmentTypeTreatment {
		if !r.TreatmentAppointmentID.IsEmpty() {
			return r.TreatmentAppointmentID
		}
		return r.ID
	}
	if !r.ConsultationAppointmentID.IsEmpty() {
		return r.ConsultationAppointmentID
	}
	return r.ID
}

func (r AppointmentRecord) HasProfilePicture() bool {
	return strings.TrimSpace(r.ProfilePicture) != ""
}
