package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrPublisherClosed возвращается при публикации через закрытый publisher
	ErrPublisherClosed = errors.New("events: publisher is closed")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("events: failed to publish")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует доменные события в RabbitMQ.
// Очереди durable, сообщения persistent. Ошибки публикации логируются и
// возвращаются вызывающему - падение брокера не должно ронять бронирование.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     Logger
}

// NewPublisher подключается к RabbitMQ и объявляет все очереди событий
func NewPublisher(url string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrPublish, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrPublish, err)
	}

	queues := []string{
		QueueReservationConfirmed,
		QueueReservationUpdated,
		QueueReservationCancelled,
		QueueReservationReminder,
		QueueGuestFlagged,
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("%w: declare queue %s: %v", ErrPublish, q, err)
		}
	}

	return &Publisher{conn: conn, channel: ch, log: log}, nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// publish сериализует событие в конверт и публикует в указанную очередь
func (p *Publisher) publish(ctx context.Context, queue string, payload interface{}) error {
	if p.channel == nil {
		return ErrPublisherClosed
	}

	env := Envelope{
		EventID:    uuid.NewString(),
		Kind:       queue,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	body, err := json.Marshal(env)
	if err != nil {
		p.log.Error("events: marshal %s failed: %v", queue, err)
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.EventID,
		Timestamp:    env.OccurredAt,
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Error("events: publish %s failed: %v", queue, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, queue, err)
	}

	return nil
}

// ReservationConfirmed публикует событие подтверждения брони
func (p *Publisher) ReservationConfirmed(ctx context.Context, event ReservationConfirmedEvent) error {
	return p.publish(ctx, QueueReservationConfirmed, event)
}

// ReservationUpdated публикует событие изменения брони
func (p *Publisher) ReservationUpdated(ctx context.Context, event ReservationUpdatedEvent) error {
	return p.publish(ctx, QueueReservationUpdated, event)
}

// ReservationCancelled публикует событие отмены брони
func (p *Publisher) ReservationCancelled(ctx context.Context, event ReservationCancelledEvent) error {
	return p.publish(ctx, QueueReservationCancelled, event)
}

// ReservationReminder публикует напоминание о предстоящей брони
func (p *Publisher) ReservationReminder(ctx context.Context, event ReservationReminderEvent) error {
	return p.publish(ctx, QueueReservationReminder, event)
}

// GuestFlagged публикует событие пометки гостя по порогу неявок
func (p *Publisher) GuestFlagged(ctx context.Context, event GuestFlaggedEvent) error {
	return p.publish(ctx, QueueGuestFlagged, event)
}
