package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

// MessageEvent is emitted after each send attempt.
type MessageEvent struct {
	MessageID  string    `json:"message_id"`
	CustomerID string    `json:"customer_id"`
	CampaignID string    `json:"campaign_id"`
	Channel    string    `json:"channel"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RunSummaryEvent is emitted once per dispatch run.
type RunSummaryEvent struct {
	TotalCampaigns          int       `json:"totalCampaigns"`
	TotalCustomersProcessed int       `json:"totalCustomersProcessed"`
	TotalEmailsSent         int       `json:"totalEmailsSent"`
	TotalSmsSent            int       `json:"totalSmsSent"`
	TotalErrors             int       `json:"totalErrors"`
	FinishedAt              time.Time `json:"finished_at"`
}

// Publisher pushes dispatch events onto a durable RabbitMQ queue for external
// alerting. It is strictly an outbound feed: sending never goes through it,
// and publish failures never fail a run.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() {
	p.ch.Close()
	p.conn.Close()
}

func (p *Publisher) PublishMessageEvent(evt MessageEvent) error {
	return p.publish("message."+evt.Status, evt)
}

func (p *Publisher) PublishRunSummary(evt RunSummaryEvent) error {
	return p.publish("run.summary", evt)
}

func (p *Publisher) publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Type:        eventType,
			Body:        body,
		},
	)
}
