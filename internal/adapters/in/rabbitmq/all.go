package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

func (l *CacheHitListener) processAllMessage(ctx context.Context, msg amqp.Delivery) error {
	cacheMessageRoutingKey, err := parseCacheMessageRoutingKey(msg.RoutingKey)
	if err != nil {
		return err
	}

	if cacheMessageRoutingKey.ResourceType != CacheHitResourceTypeAll {
		return nil
	}

	// Любое глобальное изменение на сервере сбрасывает все списки записей
	if cacheMessageRoutingKey.CacheHitType == CacheHitTypeInvalidate {
		if err := l.useCase.InvalidateAllAppointmentsCache(ctx); err != nil {
			return err
		}

		l.logger.Info("_all_.message.invalidated", out.LogFields{
			"appointments_cache": true,
		})
	}

	return nil
}
