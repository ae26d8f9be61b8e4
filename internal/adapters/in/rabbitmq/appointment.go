package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

var errEmptyPath = errors.New("appointment message without path")

// CacheAppointmentMessage path - путь списка, например /TreatmentAppointment/consultation/All
type CacheAppointmentMessage struct {
	Path string `json:"path"`
}

func (l *CacheHitListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	cacheMessageRoutingKey, err := parseCacheMessageRoutingKey(msg.RoutingKey)
	if err != nil {
		return err
	}

	if cacheMessageRoutingKey.ResourceType != CacheHitResourceTypeAppointment {
		l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
			"expected": string(CacheHitResourceTypeAppointment),
			"actual":   string(cacheMessageRoutingKey.ResourceType),
		})
		return nil
	}

	var msgJson CacheAppointmentMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	path := strings.TrimSpace(msgJson.Path)
	if path == "" {
		return errEmptyPath
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"path":         path,
		"cacheHitType": string(cacheMessageRoutingKey.CacheHitType),
	})

	// Сохранять записи в кэш через очередь нельзя, сервер присылает только события изменения
	if cacheMessageRoutingKey.CacheHitType != CacheHitTypeInvalidate {
		return nil
	}

	if err := l.useCase.InvalidateAppointmentsCache(ctx, path); err != nil {
		return err
	}

	l.logger.Info("appointment.message.invalidated", out.LogFields{
		"path": path,
	})

	return nil
}
