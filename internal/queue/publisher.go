// Package queue publishes domain events to RabbitMQ. Publishing is best
// effort: the owning transaction has already committed, so failures are
// logged and returned without interrupting the request flow.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"participant-service/internal/common/logger"
	"participant-service/internal/features/participant/models"
)

const winnersSelectedQueue = "participants.winners_selected"

// WinnersSelectedEvent announces a completed winner-selection run.
type WinnersSelectedEvent struct {
	GiveawayID         int64                 `json:"giveaway_id"`
	Winners            []models.WinnerDetail `json:"winners"`
	TotalParticipants  int                   `json:"total_participants"`
	SelectionMethod    string                `json:"selection_method"`
	SelectionTimestamp time.Time             `json:"selection_timestamp"`
}

// Publisher dials RabbitMQ per publish. An empty URL disables publishing.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Enabled reports whether a broker URL is configured.
func (p *Publisher) Enabled() bool {
	return p.url != ""
}

// PublishWinnersSelected sends the event to the winners-selected queue.
// Messages are persistent so they survive broker restarts.
func (p *Publisher) PublishWinnersSelected(ctx context.Context, event WinnersSelectedEvent) error {
	if !p.Enabled() {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		winnersSelectedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		winnersSelectedQueue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		logger.Warn().Err(err).Int64("giveaway_id", event.GiveawayID).Msg("RabbitMQ publish failed")
		return err
	}

	return nil
}
