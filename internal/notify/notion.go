package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/dataflow-etl/internal/domain"
	"github.com/jomei/notionapi"
)

// NotionService defines the part of the Notion API the mirror needs.
// This interface enables mocking and testing of Notion operations.
type NotionService interface {
	// CreatePage creates a new page in a Notion database with the given properties.
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
}

// NotionClient is the concrete implementation of NotionService using the Notion SDK.
type NotionClient struct {
	client *notionapi.Client
}

// NewNotionClient creates a new NotionClient with the provided API token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// CreatePage creates a new page in a Notion database with the given properties.
func (n *NotionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	}

	page, err := n.client.Page.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("CreatePage: %w", err)
	}

	return page, nil
}

// NotionNotifier mirrors each summary as a page in a Notion database, one
// row per processed file.
type NotionNotifier struct {
	service    NotionService
	databaseID string
}

// NewNotionNotifier creates a notifier writing into the given database.
func NewNotionNotifier(service NotionService, databaseID string) *NotionNotifier {
	return &NotionNotifier{
		service:    service,
		databaseID: databaseID,
	}
}

// Notify creates one page for the summary.
func (n *NotionNotifier) Notify(ctx context.Context, s domain.Summary) error {
	if _, err := n.service.CreatePage(ctx, n.databaseID, summaryProperties(s)); err != nil {
		return fmt.Errorf("NotionNotifier: %w", err)
	}
	return nil
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

// summaryProperties maps a summary onto the mirror database columns.
func summaryProperties(s domain.Summary) notionapi.Properties {
	completed := notionapi.Date(s.CompletedAt)

	return notionapi.Properties{
		"File": notionapi.TitleProperty{
			Title: richText(s.FileName),
		},
		"Bucket": notionapi.RichTextProperty{
			RichText: richText(s.Bucket),
		},
		"Key": notionapi.RichTextProperty{
			RichText: richText(s.Key),
		},
		"Invocation ID": notionapi.RichTextProperty{
			RichText: richText(s.InvocationID),
		},
		"Headers": notionapi.RichTextProperty{
			RichText: richText(strings.Join(s.Headers, ", ")),
		},
		"Written": notionapi.NumberProperty{
			Number: float64(s.Written),
		},
		"Skipped": notionapi.NumberProperty{
			Number: float64(s.Skipped),
		},
		"Completed": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &completed,
			},
		},
	}
}
