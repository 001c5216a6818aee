// Package notify delivers synthesized alerts over external channels. Email
// and push are both fire-and-forget publishes onto a durable RabbitMQ
// exchange; a separate, out-of-scope delivery worker owns the actual SMTP/APNs
// transport. Publishing failures are swallowed into a bool, never an error,
// because alerts.Service treats notification as best-effort.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

const (
	exchangeName    = "parentwatch.alerts"
	routingKeyEmail = "alert.email"
	routingKeyPush  = "alert.push"

	// publishTimeout bounds a single publish call, per §5's 10s Notifier
	// timeout.
	publishTimeout = 10 * time.Second
)

// AmqpNotifier publishes alert-delivery messages to a topic exchange.
// Satisfies alerts.Notifier.
type AmqpNotifier struct {
	logger  *logfx.Logger
	channel *amqp091.Channel
}

// NewAmqpNotifier declares the topic exchange this notifier publishes to and
// returns a ready-to-use Notifier. conn is owned by the caller (the shared
// connfx AMQP connection) and is not closed here.
func NewAmqpNotifier(conn *amqp091.Connection, logger *logfx.Logger) (*AmqpNotifier, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = channel.ExchangeDeclare(exchangeName, amqp091.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		channel.Close() //nolint:errcheck

		return nil, err
	}

	return &AmqpNotifier{logger: logger, channel: channel}, nil
}

type emailMessage struct {
	ParentID  string    `json:"parent_id"`
	AlertID   string    `json:"alert_id"`
	AlertType string    `json:"alert_type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type pushMessage struct {
	ParentID  string   `json:"parent_id"`
	AlertID   string   `json:"alert_id"`
	AlertType string   `json:"alert_type"`
	Title     string   `json:"title"`
	Tokens    []string `json:"tokens"`
}

// SendEmail satisfies alerts.Notifier.
func (n *AmqpNotifier) SendEmail(ctx context.Context, parentID string, alert *domain.Alert) bool {
	body, err := json.Marshal(emailMessage{
		ParentID:  parentID,
		AlertID:   alert.ID,
		AlertType: string(alert.AlertType),
		Title:     alert.Title,
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal email notification", slog.Any("error", err))

		return false
	}

	return n.publish(ctx, routingKeyEmail, body)
}

// SendPush satisfies alerts.Notifier.
func (n *AmqpNotifier) SendPush(ctx context.Context, parentID string, tokens []*domain.DeviceToken, alert *domain.Alert) bool {
	if len(tokens) == 0 {
		return true
	}

	tokenStrs := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrs[i] = t.Token
	}

	body, err := json.Marshal(pushMessage{
		ParentID:  parentID,
		AlertID:   alert.ID,
		AlertType: string(alert.AlertType),
		Title:     alert.Title,
		Tokens:    tokenStrs,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal push notification", slog.Any("error", err))

		return false
	}

	return n.publish(ctx, routingKeyPush, body)
}

func (n *AmqpNotifier) publish(ctx context.Context, routingKey string, body []byte) bool {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := n.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to publish alert notification",
			slog.String("routing_key", routingKey), slog.Any("error", err))

		return false
	}

	return true
}
