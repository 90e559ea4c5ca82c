package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PruneQueue      = "assets.prune"
	PruneExchange   = "assets.exchange"
	PruneRoutingKey = "assets.prune"
)

// PruneRequestMessage asks the consumer to run one prune pass over the asset
// namespace.
type PruneRequestMessage struct {
	// RequestedBy records what triggered the pass ("cron", "operator", ...).
	RequestedBy string `json:"requested_by"`
	Timestamp   int64  `json:"timestamp"`
}

// PruneProduceService publishes prune requests for the consumer binary.
type PruneProduceService struct {
	channel *amqp.Channel
}

func InitPruneProduceService(channel *amqp.Channel) *PruneProduceService {
	service := &PruneProduceService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		PruneExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare prune exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		PruneQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare prune queue: " + err.Error())
	}

	err = channel.QueueBind(
		PruneQueue,
		PruneRoutingKey,
		PruneExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind prune queue: " + err.Error())
	}

	return service
}

// PublishPruneRequest enqueues one prune pass.
func (s *PruneProduceService) PublishPruneRequest(ctx context.Context, msg PruneRequestMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		PruneExchange,
		PruneRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
