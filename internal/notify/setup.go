package notify

import (
	"context"
	"fmt"

	"github.com/dvloznov/dataflow-etl/internal/config"
)

// NewFromConfig builds the notifiers enabled by the configuration: always
// Pub/Sub, plus the Notion mirror when it is configured. The returned close
// function releases the Pub/Sub client.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Notifier, func() error, error) {
	ps, err := NewPubSubNotifier(ctx, cfg.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("NewFromConfig: %w", err)
	}

	notifiers := MultiNotifier{ps}
	if cfg.NotionEnabled() {
		notifiers = append(notifiers, NewNotionNotifier(NewNotionClient(cfg.NotionToken), cfg.NotionDatabaseID))
	}

	return notifiers, ps.Close, nil
}
