package intake_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

func TestRouteAppointment_StoresSelectionAndRoutes(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "20")

	env.clinic.On("GetAppointments", mock.Anything, "/TreatmentAppointment/treatment/sup-3").Return(treatments(t), nil)

	decision, err := env.service.RouteAppointment(ctx, session.ID, domain.SelectionTreatment, "10")
	require.NoError(t, err)

	assert.Equal(t, domain.ScreenAppointments, decision.Screen)
	assert.Equal(t, "101", decision.Params["customerId"])
	assert.Equal(t, "10", decision.Params["treatmentAppointmentId"])

	selection, err := env.service.GetSelection(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.Selection{
		Kind:          domain.SelectionTreatment,
		AppointmentID: "10",
		DoctorName:    "Dr. Perera",
	}, selection)
	assert.Equal(t, []domain.ScreenName{domain.ScreenAppointments}, env.metrics.screens)
}

func TestRouteAppointment_SwitchingKindClearsOtherSelection(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "8")

	env.clinic.On("GetAppointments", mock.Anything, "/TreatmentAppointment/treatment/All").Return(treatments(t), nil)
	env.clinic.On("GetAppointments", mock.Anything, "/TreatmentAppointment/consultation/All").Return(consultations(t), nil)

	_, err := env.service.RouteAppointment(ctx, session.ID, domain.SelectionTreatment, "10")
	require.NoError(t, err)

	decision, err := env.service.RouteAppointment(ctx, session.ID, domain.SelectionConsultation, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenProfilePicture, decision.Screen)

	assert.False(t, env.store.has(sessionKey(session.ID, keyTreatmentAppointmentID)))
	assert.False(t, env.store.has(sessionKey(session.ID, keyTreatmentDoctorName)))
	assert.True(t, env.store.has(sessionKey(session.ID, keyConsultationAppointmentID)))
}

func TestRouteAppointment_NotFound(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "8")

	env.clinic.On("GetAppointments", mock.Anything, "/TreatmentAppointment/consultation/All").Return(consultations(t), nil)

	_, err := env.service.RouteAppointment(ctx, session.ID, domain.SelectionConsultation, "999")
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	_, err = env.service.RouteAppointment(ctx, session.ID, "package", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestAdvance_FallsBackToSessionSelection(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "19")

	require.NoError(t, env.service.SelectAppointment(ctx, session.ID, domain.Selection{
		Kind:          domain.SelectionTreatment,
		AppointmentID: "10",
	}))

	decision, err := env.service.Advance(ctx, session.ID, domain.ScreenTreatmentSession, domain.RouteParams{
		"customerId": "101",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScreenAfterPhoto, decision.Screen)
	assert.Equal(t, "10", decision.Params["treatmentAppointmentId"])
	assert.Equal(t, "view-only", decision.Params["mode"])
	assert.Equal(t, string(domain.ScreenTreatmentSession), decision.Params["fromPage"])
}

func TestAdvance_DoesNotReuseSelectionOfOtherType(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "8")

	require.NoError(t, env.service.SelectAppointment(ctx, session.ID, domain.Selection{
		Kind:          domain.SelectionConsultation,
		AppointmentID: "55",
	}))

	decision, err := env.service.Advance(ctx, session.ID, domain.ScreenConsentForm, domain.RouteParams{
		"customerId":      "101",
		"appointmentType": "Treatment",
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
	assert.Nil(t, decision)
	assert.Empty(t, env.metrics.screens)

	selection, err := env.service.GetSelection(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.Selection{Kind: domain.SelectionConsultation, AppointmentID: "55"}, selection)
}

func TestAdvance_ReusesSelectionOfSameType(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "8")

	require.NoError(t, env.service.SelectAppointment(ctx, session.ID, domain.Selection{
		Kind:          domain.SelectionConsultation,
		AppointmentID: "55",
	}))

	decision, err := env.service.Advance(ctx, session.ID, domain.ScreenConsentForm, domain.RouteParams{
		"customerId":      "101",
		"appointmentType": "consultation",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenConsultationPhoto, decision.Screen)
	assert.Equal(t, "55", decision.Params["consultationAppointmentId"])
}

func TestAdvance_SyncsSelectionWithParams(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "8")

	require.NoError(t, env.service.SelectAppointment(ctx, session.ID, domain.Selection{
		Kind:          domain.SelectionTreatment,
		AppointmentID: "10",
	}))

	decision, err := env.service.Advance(ctx, session.ID, domain.ScreenConsentForm, domain.RouteParams{
		"customerId":                "102",
		"consultationAppointmentId": "2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenConsultationPhoto, decision.Screen)

	selection, err := env.service.GetSelection(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.Selection{Kind: domain.SelectionConsultation, AppointmentID: "2"}, selection)
	assert.False(t, env.store.has(sessionKey(session.ID, keyTreatmentAppointmentID)))
}

func TestAdvance_WithoutAnyAppointment(t *testing.T) {
	env := newTestEnv(false)
	session := env.login(t, "8")

	_, err := env.service.Advance(context.Background(), session.ID, domain.ScreenConsentForm, domain.RouteParams{
		"customerId": "101",
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}

func TestPhotoModeAndDefaultView(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	session := env.login(t, "17")

	mode, err := env.service.PhotoMode(ctx, session.ID, domain.PhotoScreenAfter)
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoModeViewOnly, mode)

	view, err := env.service.DefaultView(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultView{View: domain.ViewConsultation}, view)

	_, err = env.service.DefaultView(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
