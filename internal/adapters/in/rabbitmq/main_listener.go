package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/in"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

const declareAttempts = 3

type CacheHitListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.IntakeUseCase
	cfg     *config.Config
	logger  out.LoggerPort

	consumerWg sync.WaitGroup
}

type (
	CacheHitType         string
	CacheHitResourceType string
)

type CacheMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType CacheHitResourceType
	CacheHitType CacheHitType
}

const (
	CacheHitResourceTypeAll         CacheHitResourceType = "_all_"
	CacheHitResourceTypeAppointment CacheHitResourceType = "appointment"
)

const (
	CacheHitTypeStore      CacheHitType = "store"
	CacheHitTypeInvalidate CacheHitType = "invalidate"
)

type messageHandler func(ctx context.Context, msg amqp.Delivery) error

func NewCacheHitListener(useCase in.IntakeUseCase, cfg *config.Config, logger out.LoggerPort) (*CacheHitListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &CacheHitListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *CacheHitListener) Start(ctx context.Context) error {
	if err := l.declareExchange(); err != nil {
		return err
	}

	queues := []struct {
		name    string
		bind    string
		handler messageHandler
	}{
		{l.cfg.RabbitMQ.AppointmentQueue, l.cfg.RabbitMQ.AppointmentBind, l.processAppointmentMessage},
		{l.cfg.RabbitMQ.AllQueue, l.cfg.RabbitMQ.AllBind, l.processAllMessage},
	}

	for _, q := range queues {
		if err := l.startQueue(ctx, q.name, q.bind, q.handler); err != nil {
			return err
		}
		l.logger.Info("rabbitmq.queue.started", out.LogFields{
			"queue":    q.name,
			"binding":  q.bind,
			"exchange": l.cfg.RabbitMQ.Exchange,
		})
	}

	return nil
}

func (l *CacheHitListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	// Закрытие канала закрывает delivery-каналы, консьюмеры выходят сами
	chanErr := l.channel.Close()
	connErr := l.conn.Close()
	l.consumerWg.Wait()

	if chanErr != nil {
		return chanErr
	}
	return connErr
}

func (l *CacheHitListener) declareExchange() error {
	exchange := l.cfg.RabbitMQ.Exchange

	return l.retry("exchange_declare", out.LogFields{"exchange": exchange}, func() error {
		return l.channel.ExchangeDeclare(
			exchange, // имя обменника
			"topic",  // тип обменника
			true,     // durable
			false,    // auto-delete
			false,    // internal
			false,    // no-wait
			nil,      // аргументы
		)
	})
}

func (l *CacheHitListener) startQueue(ctx context.Context, queueName, bindingKey string, handler messageHandler) error {
	exchange := l.cfg.RabbitMQ.Exchange
	fields := out.LogFields{
		"queue":    queueName,
		"binding":  bindingKey,
		"exchange": exchange,
	}

	var queue amqp.Queue
	err := l.retry("queue_declare", fields, func() error {
		var err error
		queue, err = l.channel.QueueDeclare(
			queueName,
			true,  // durable
			true,  // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		return err
	})
	if err != nil {
		return err
	}

	err = l.retry("queue_bind", fields, func() error {
		return l.channel.QueueBind(queue.Name, bindingKey, exchange, false, nil)
	})
	if err != nil {
		return err
	}

	consumerID := fmt.Sprintf("consumer-%s-%d", queue.Name, time.Now().UnixNano())

	var msgs <-chan amqp.Delivery
	err = l.retry("consume", fields, func() error {
		var err error
		msgs, err = l.channel.Consume(
			queue.Name,
			consumerID,
			false, // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,   // args
		)
		return err
	})
	if err != nil {
		return err
	}

	l.consumerWg.Add(1)
	go func() {
		defer l.consumerWg.Done()
		l.consume(ctx, queue.Name, msgs, handler)
	}()

	return nil
}

func (l *CacheHitListener) consume(ctx context.Context, queueName string, msgs <-chan amqp.Delivery, handler messageHandler) {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("rabbitmq.consumer.stopping_by_context", out.LogFields{
				"queue": queueName,
			})
			return
		case msg, ok := <-msgs:
			if !ok {
				l.logger.Warn("rabbitmq.consumer.channel_closed", out.LogFields{
					"queue": queueName,
				})
				return
			}

			l.logger.Debug("rabbitmq.message.received", out.LogFields{
				"queue":      queueName,
				"routingKey": msg.RoutingKey,
				"messageId":  msg.MessageId,
			})

			if err := handler(ctx, msg); err != nil {
				l.logger.Error("rabbitmq.process_message.failed", out.LogFields{
					"queue":      queueName,
					"routingKey": msg.RoutingKey,
					"messageId":  msg.MessageId,
					"error":      err.Error(),
				})

				// Битое сообщение в очередь не возвращаем, иначе оно будет крутиться бесконечно
				if err := msg.Nack(false, false); err != nil {
					l.logger.Error("rabbitmq.message.nack_failed", out.LogFields{
						"error": err.Error(),
					})
				}
				continue
			}

			if err := msg.Ack(false); err != nil {
				l.logger.Error("rabbitmq.message.ack_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}
	}
}

func (l *CacheHitListener) retry(operation string, fields out.LogFields, fn func() error) error {
	var err error
	for attempt := 1; attempt <= declareAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		l.logger.WithFields(fields).Warn("rabbitmq."+operation+".retry", out.LogFields{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < declareAttempts {
			time.Sleep(500 * time.Millisecond)
		}
	}
	return fmt.Errorf("rabbitmq %s: %w", operation, err)
}

// Пример routingKey:
// clinic.intake-router-svc.appointment.treatment.invalidate
// clinic.intake-router-svc._all_.any.invalidate
func parseCacheMessageRoutingKey(routingKey string) (CacheMessageRoutingKey, error) {
	parts := strings.Split(routingKey, ".")

	if len(parts) < 5 {
		return CacheMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return CacheMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: CacheHitResourceType(parts[2]),
		CacheHitType: CacheHitType(parts[4]),
	}, nil
}
