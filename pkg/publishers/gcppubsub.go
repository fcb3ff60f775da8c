package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// gcpPubSubSender delivers events to one Pub/Sub topic.
type gcpPubSubSender struct {
	topic *pubsub.Topic
	log   Logger
}

// newGCPPubSubSender creates a Pub/Sub sender. When a credentials file is
// configured it overrides application default credentials.
func newGCPPubSubSender(ctx context.Context, cfg *GCPQueueConfig, log Logger) (*gcpPubSubSender, error) {
	if cfg == nil {
		return nil, errors.New("gcppubsub configuration is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSender{
		topic: client.Topic(cfg.Topic),
		log:   ensureLogger(log),
	}, nil
}

// Send marshals the event and publishes it, blocking until the server
// acknowledges delivery.
func (g *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res := g.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"endpoint": evt.Endpoint,
		},
	})
	if _, err := res.Get(ctx); err != nil {
		g.log.ErrorObj("pubsub sender delivery failed", "publisher_pubsub_error", map[string]any{
			"event_id": evt.ID,
			"error":    err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	g.log.DebugObj("pubsub sender delivered event", "publisher_pubsub_delivery", map[string]any{
		"event_id": evt.ID,
	})
	return nil
}

// gcpPublisher implements the Publisher interface for GCP Pub/Sub.
type gcpPublisher struct {
	id     string
	typ    string
	sender Sender
}

// newGCPPublisher creates a new Pub/Sub publisher with the given configuration.
func newGCPPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.GCP == nil {
		return nil, fmt.Errorf("publisher %q missing gcppubsub configuration", cfg.ID)
	}

	sender, err := newGCPPubSubSender(ctx, cfg.GCP, log)
	if err != nil {
		return nil, err
	}

	return &gcpPublisher{
		id:     cfg.ID,
		typ:    TypeGCP,
		sender: sender,
	}, nil
}

func (g *gcpPublisher) ID() string   { return g.id }
func (g *gcpPublisher) Type() string { return g.typ }

// Publish sends the event to the configured Pub/Sub topic.
func (g *gcpPublisher) Publish(ctx context.Context, evt Event) error {
	return g.sender.Send(ctx, evt)
}
