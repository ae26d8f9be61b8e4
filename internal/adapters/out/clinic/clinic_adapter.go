package clinic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type ClinicAdapter struct {
	client *resty.Client
	logger out.LoggerPort
}

func NewClinicAdapter(cfg *config.Config, logger out.LoggerPort) *ClinicAdapter {
	client := resty.New().
		SetBaseURL(cfg.ClinicAPI.URL).
		SetTimeout(cfg.ClinicAPI.Timeout).
		SetRetryCount(cfg.ClinicAPI.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ClinicAdapter{
		client: client,
		logger: logger.WithModule("ClinicAdapter"),
	}
}

func (a *ClinicAdapter) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	a.logger.Info("clinic.login", out.LogFields{
		"username": username,
	})

	var profile domain.UserProfile
	var failure errorResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&profile).
		SetError(&failure).
		Post("/User/login")
	if err != nil {
		a.logger.Error("clinic.login.request_failed", out.LogFields{
			"username": username,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusBadRequest:
		a.logger.Warn("clinic.login.rejected", out.LogFields{
			"username": username,
			"status":   resp.StatusCode(),
			"message":  failure.Message,
		})
		return nil, domain.ErrInvalidCredentials
	case resp.IsError():
		a.logger.Error("clinic.login.failed", out.LogFields{
			"username": username,
			"status":   resp.StatusCode(),
		})
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrBackendUnavailable, resp.StatusCode())
	}

	// Успешный вход всегда содержит токен
	if profile.Token == "" {
		a.logger.Warn("clinic.login.no_token", out.LogFields{
			"username": username,
		})
		return nil, domain.ErrInvalidCredentials
	}

	a.logger.Debug("clinic.login.success", out.LogFields{
		"userId": profile.UserID,
		"roleId": profile.RoleID,
	})

	return &profile, nil
}

func (a *ClinicAdapter) GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, error) {
	a.logger.Info("clinic.appointments.fetch", out.LogFields{
		"path": path,
	})

	var records []domain.AppointmentRecord
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&records).
		Get(path)
	if err != nil {
		a.logger.Error("clinic.appointments.fetch_failed", out.LogFields{
			"path":  path,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	if resp.IsError() {
		a.logger.Error("clinic.appointments.fetch_failed", out.LogFields{
			"path":   path,
			"status": resp.StatusCode(),
		})
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrBackendUnavailable, resp.StatusCode())
	}

	a.logger.Debug("clinic.appointments.fetch_success", out.LogFields{
		"path":  path,
		"count": len(records),
	})

	return records, nil
}
