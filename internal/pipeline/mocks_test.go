package pipeline_test

import (
	"context"

	"github.com/dvloznov/dataflow-etl/internal/domain"
)

// MockStorageService is a mock implementation of StorageService for testing.
type MockStorageService struct {
	FetchObjectFunc func(ctx context.Context, bucket, key string) ([]byte, error)
}

func (m *MockStorageService) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.FetchObjectFunc != nil {
		return m.FetchObjectFunc(ctx, bucket, key)
	}
	return []byte("name,email,amount\n"), nil
}

// MockRecordSink records every upsert and can fail selected records.
type MockRecordSink struct {
	UpsertRecordFunc func(ctx context.Context, rec *domain.Record) error
	Records          []*domain.Record
}

func (m *MockRecordSink) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	if m.UpsertRecordFunc != nil {
		if err := m.UpsertRecordFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.Records = append(m.Records, rec)
	return nil
}

// MockNotifier captures summaries.
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, summary domain.Summary) error
	Summaries  []domain.Summary
}

func (m *MockNotifier) Notify(ctx context.Context, summary domain.Summary) error {
	m.Summaries = append(m.Summaries, summary)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, summary)
	}
	return nil
}
