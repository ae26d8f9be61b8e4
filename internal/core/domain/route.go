package domain

type ScreenName string

const (
	ScreenDashboard         ScreenName = "Dashboard"
	ScreenProfilePicture    ScreenName = "ProfilePicture"
	ScreenConsentForm       ScreenName = "ConcentFill"
	ScreenBeforePhoto       ScreenName = "StartTreatment"
	ScreenTreatmentSession  ScreenName = "MedicalReports"
	ScreenAfterPhoto        ScreenName = "TreatmentAfterPhoto"
	ScreenFeedback          ScreenName = "Feedback"
	ScreenConsultationPhoto ScreenName = "Startconsultation"
	ScreenAfterConsultation ScreenName = "AfterConsultation"
	ScreenAppointments      ScreenName = "Appoinments"
)

// RouteParams параметры экрана назначения, всегда содержат customerId
// и идентификатор записи нужного типа
type RouteParams map[string]string

type RouteDecision struct {
	Screen ScreenName  `json:"screen"`
	Params RouteParams `json:"params"`
}

// RouteContext то, что экран передает дальше по цепочке
type RouteContext struct {
	AppointmentType AppointmentType
	CustomerID      string
	AppointmentID   string
	TreatmentID     string
	ConsultationID  string
	RoleID          RoleID
}
