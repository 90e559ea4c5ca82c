package worker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vegandiet705/next-upload/infra"
	"github.com/vegandiet705/next-upload/infra/produce"
	"github.com/vegandiet705/next-upload/provider"
)

type PruneConsumer struct {
	channel  *amqp.Channel
	infra    *infra.Infra
	provider *provider.UploadProvider
}

func NewPruneConsumer(channel *amqp.Channel, infra *infra.Infra, prov *provider.UploadProvider) *PruneConsumer {
	return &PruneConsumer{
		channel:  channel,
		infra:    infra,
		provider: prov,
	}
}

func (c *PruneConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.PruneQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register prune consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Prune Consumer] Started listening for prune jobs on queue: %s", produce.PruneQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Prune Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Prune Consumer] Channel closed")
					return
				}
				c.handlePruneRequest(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *PruneConsumer) handlePruneRequest(ctx context.Context, msg amqp.Delivery) {
	var payload produce.PruneRequestMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Prune Consumer] Failed to unmarshal message")
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Prune Consumer] Running prune pass requested by %s", payload.RequestedBy)

	// A prune pass can outlive the shutdown signal; let the running pass
	// finish instead of aborting it mid-scan.
	bgCtx := context.Background()

	report, err := c.provider.PruneAssets(bgCtx)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Prune Consumer] Prune pass failed")
		_ = msg.Nack(false, true) // Requeue
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Prune Consumer] Prune pass done: scanned %d, pruned %d, failed %d", report.Scanned, report.Pruned, report.Failed)

	_ = msg.Ack(false)
}
