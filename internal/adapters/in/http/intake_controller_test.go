package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-intake-router/internal/adapters/out/logger"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"go.uber.org/zap"
)

type MockIntakeUseCase struct {
	mock.Mock
}

func (m *MockIntakeUseCase) StartSession(ctx context.Context, username, password string) (*domain.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockIntakeUseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockIntakeUseCase) EndSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockIntakeUseCase) SelectAppointment(ctx context.Context, sessionID string, selection domain.Selection) error {
	return m.Called(ctx, sessionID, selection).Error(0)
}

func (m *MockIntakeUseCase) GetSelection(ctx context.Context, sessionID string) (*domain.Selection, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Selection), args.Error(1)
}

func (m *MockIntakeUseCase) DefaultView(ctx context.Context, sessionID string) (domain.DefaultView, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.DefaultView), args.Error(1)
}

func (m *MockIntakeUseCase) PhotoMode(ctx context.Context, sessionID string, screen domain.PhotoScreen) (domain.PhotoMode, error) {
	args := m.Called(ctx, sessionID, screen)
	return args.Get(0).(domain.PhotoMode), args.Error(1)
}

func (m *MockIntakeUseCase) Dashboard(ctx context.Context, sessionID string, query domain.DashboardQuery) (*domain.DashboardView, error) {
	args := m.Called(ctx, sessionID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardView), args.Error(1)
}

func (m *MockIntakeUseCase) RouteAppointment(ctx context.Context, sessionID string, kind domain.SelectionKind, appointmentID string) (*domain.RouteDecision, error) {
	args := m.Called(ctx, sessionID, kind, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteDecision), args.Error(1)
}

func (m *MockIntakeUseCase) Advance(ctx context.Context, sessionID string, from domain.ScreenName, params domain.RouteParams) (*domain.RouteDecision, error) {
	args := m.Called(ctx, sessionID, from, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteDecision), args.Error(1)
}

func (m *MockIntakeUseCase) InvalidateAppointmentsCache(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockIntakeUseCase) InvalidateAllAppointmentsCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupRouter(t *testing.T) (*gin.Engine, *MockIntakeUseCase) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.Auth.BasicClients = []config.ConfigBasicClient{{Username: "ios", Password: "secret"}}

	useCase := &MockIntakeUseCase{}
	t.Cleanup(func() { useCase.AssertExpectations(t) })

	router := gin.New()
	NewIntakeController(useCase, cfg, logger.NewZapLoggerFrom(zap.NewNop()), nil).RegisterRoutes(router)
	return router, useCase
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetBasicAuth("ios", "secret")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestIntakeController_BasicAuth(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classify?status=active", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/classify?status=active", nil)
	req.SetBasicAuth("ios", "wrong")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(requestIDHeader))
}

func TestIntakeController_Classify(t *testing.T) {
	router, _ := setupRouter(t)

	recorder := doRequest(router, http.MethodGet, "/api/v1/classify?status=%20On%20Going%20", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Ongoing", decodeBody(t, recorder)["bucket"])
}

func TestIntakeController_StartSession(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("StartSession", mock.Anything, "jane", "secret").
		Return(&domain.Session{ID: "s-1", RoleID: domain.RoleNurse}, nil)
	useCase.On("StartSession", mock.Anything, "jane", "wrong").
		Return(nil, domain.ErrInvalidCredentials)

	recorder := doRequest(router, http.MethodPost, "/api/v1/sessions", `{"username": "jane", "password": "secret"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "s-1", body["sessionId"])
	assert.EqualValues(t, 20, body["roleId"])

	recorder = doRequest(router, http.MethodPost, "/api/v1/sessions", `{"username": "jane", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doRequest(router, http.MethodPost, "/api/v1/sessions", `{"username": "jane"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIntakeController_SessionErrors(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("GetSession", mock.Anything, "missing").Return(nil, domain.ErrSessionNotFound)
	useCase.On("EndSession", mock.Anything, "s-1").Return(nil)
	useCase.On("GetSelection", mock.Anything, "s-1").Return(nil, domain.ErrNoSelection)

	recorder := doRequest(router, http.MethodGet, "/api/v1/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, domain.ErrSessionNotFound.Error(), decodeBody(t, recorder)["error"])

	recorder = doRequest(router, http.MethodDelete, "/api/v1/sessions/s-1", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/selection", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestIntakeController_SelectAppointment(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("SelectAppointment", mock.Anything, "s-1", domain.Selection{
		Kind:          domain.SelectionTreatment,
		AppointmentID: "10",
		DoctorName:    "Dr. Perera",
	}).Return(nil)
	useCase.On("SelectAppointment", mock.Anything, "s-1", domain.Selection{
		Kind:          domain.SelectionKind("package"),
		AppointmentID: "10",
	}).Return(domain.ErrInvalidSelection)

	recorder := doRequest(router, http.MethodPut, "/api/v1/sessions/s-1/selection", `{"kind": "Treatment", "appointmentId": "10", "doctorName": "Dr. Perera"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(router, http.MethodPut, "/api/v1/sessions/s-1/selection", `{"kind": "package", "appointmentId": "10"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIntakeController_Dashboard(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("Dashboard", mock.Anything, "s-1", domain.DashboardQuery{
		View:   domain.ViewTreatment,
		Bucket: domain.StatusBucketOngoing,
		Search: "silva",
		Debug:  true,
	}).Return(&domain.DashboardView{View: domain.ViewTreatment, Alert: "Some appointments could not be loaded."}, nil)

	recorder := doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/dashboard?view=Treatment&status=ongoing&search=%20silva&debug=true", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "treatment", body["view"])
	assert.NotEmpty(t, body["alert"])

	tests := []string{
		"/api/v1/sessions/s-1/dashboard?view=package",
		"/api/v1/sessions/s-1/dashboard?status=cancelled",
		"/api/v1/sessions/s-1/dashboard?debug=maybe",
	}
	for _, path := range tests {
		recorder = doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code, path)
	}
}

func TestIntakeController_DashboardBackendFailure(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("Dashboard", mock.Anything, "s-1", domain.DashboardQuery{}).
		Return(nil, fmt.Errorf("read session roleId: %w", domain.ErrBackendUnavailable))

	recorder := doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/dashboard?status=all", "")
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestIntakeController_ViewAndPhotoMode(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("DefaultView", mock.Anything, "s-1").Return(domain.DefaultView{View: domain.ViewTreatment, Locked: true}, nil)
	useCase.On("PhotoMode", mock.Anything, "s-1", domain.PhotoScreenAfter).Return(domain.PhotoModeViewOnly, nil)
	useCase.On("PhotoMode", mock.Anything, "s-1", domain.PhotoScreen("consent")).Return(domain.PhotoMode(""), domain.ErrUnknownScreen)

	recorder := doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/view", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]interface{}{"view": "treatment", "locked": true}, decodeBody(t, recorder))

	recorder = doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/photo-mode/after-photo", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "view-only", decodeBody(t, recorder)["mode"])

	recorder = doRequest(router, http.MethodGet, "/api/v1/sessions/s-1/photo-mode/consent", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIntakeController_RouteAndAdvance(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("RouteAppointment", mock.Anything, "s-1", domain.SelectionTreatment, "10").Return(&domain.RouteDecision{
		Screen: domain.ScreenAppointments,
		Params: domain.RouteParams{"customerId": "101", "treatmentAppointmentId": "10"},
	}, nil)
	useCase.On("RouteAppointment", mock.Anything, "s-1", domain.SelectionConsultation, "999").Return(nil, domain.ErrAppointmentNotFound)
	useCase.On("Advance", mock.Anything, "s-1", domain.ScreenTreatmentSession, domain.RouteParams{}).Return(&domain.RouteDecision{
		Screen: domain.ScreenAfterPhoto,
		Params: domain.RouteParams{"fromPage": "MedicalReports"},
	}, nil)
	useCase.On("Advance", mock.Anything, "s-1", domain.ScreenAppointments, domain.RouteParams{"customerId": "101"}).Return(nil, domain.ErrNoNextScreen)

	recorder := doRequest(router, http.MethodPost, "/api/v1/sessions/s-1/route", `{"kind": "treatment", "appointmentId": "10"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Appoinments", decodeBody(t, recorder)["screen"])

	recorder = doRequest(router, http.MethodPost, "/api/v1/sessions/s-1/route", `{"kind": "consultation", "appointmentId": "999"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doRequest(router, http.MethodPost, "/api/v1/sessions/s-1/advance", `{"from": "MedicalReports"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "TreatmentAfterPhoto", decodeBody(t, recorder)["screen"])

	recorder = doRequest(router, http.MethodPost, "/api/v1/sessions/s-1/advance", `{"from": "Appoinments", "params": {"customerId": "101"}}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIntakeController_AdvanceAcceptsNumericParams(t *testing.T) {
	router, useCase := setupRouter(t)

	useCase.On("Advance", mock.Anything, "s-1", domain.ScreenConsentForm, domain.RouteParams{
		"customerId":             "101",
		"treatmentAppointmentId": "10",
		"treatmentId":            "7",
	}).Return(&domain.RouteDecision{
		Screen: domain.ScreenBeforePhoto,
		Params: domain.RouteParams{"treatmentAppointmentId": "10"},
	}, nil)

	recorder := doRequest(router, http.MethodPost, "/api/v1/sessions/s-1/advance",
		`{"from": "ConcentFill", "params": {"customerId": 101, "treatmentAppointmentId": "10", "treatmentId": 7, "departmentId": null}}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "StartTreatment", decodeBody(t, recorder)["screen"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("lookup: %w", domain.ErrAppointmentNotFound)))
}
