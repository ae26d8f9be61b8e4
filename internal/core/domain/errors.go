package domain

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrIncompleteRecord    = errors.New("appointment record is missing required identifiers")
	ErrNoNextScreen        = errors.New("no next screen in intake flow")
	ErrInvalidSelection    = errors.New("invalid appointment selection")
	ErrNoSelection         = errors.New("no active appointment selection")
	ErrKeyNotFound         = errors.New("session key not found")
	ErrUnknownScreen       = errors.New("unknown screen")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrBackendUnavailable  = errors.New("clinic backend request failed")
)
