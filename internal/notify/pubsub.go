package notify

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/pubsub"
	"github.com/dvloznov/dataflow-etl/internal/domain"
	"google.golang.org/api/option"
)

// PubSubNotifier publishes summaries to the summary topic.
type PubSubNotifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubNotifier creates a notifier with its own Pub/Sub client.
func NewPubSubNotifier(ctx context.Context, projectID string, opts ...option.ClientOption) (*PubSubNotifier, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewPubSubNotifier: creating client: %w", err)
	}
	return &PubSubNotifier{
		client: client,
		topic:  client.Topic(SummaryTopicID),
	}, nil
}

// Notify publishes one message and waits for the server to accept it.
// The subject travels as a message attribute.
func (n *PubSubNotifier) Notify(ctx context.Context, s domain.Summary) error {
	subject, body := FormatMessage(s)

	res := n.topic.Publish(ctx, &pubsub.Message{
		Data: []byte(body),
		Attributes: map[string]string{
			"subject":       subject,
			"file_name":     s.FileName,
			"bucket":        s.Bucket,
			"invocation_id": s.InvocationID,
			"written":       strconv.Itoa(s.Written),
			"skipped":       strconv.Itoa(s.Skipped),
		},
	})

	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("PubSubNotifier: publishing to %s: %w", SummaryTopicID, err)
	}
	return nil
}

// Close flushes pending messages and closes the client.
func (n *PubSubNotifier) Close() error {
	n.topic.Stop()
	return n.client.Close()
}
