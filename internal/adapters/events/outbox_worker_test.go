package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sellforge/marketplace/internal/adapters/memory"
	"github.com/sellforge/marketplace/internal/ports"
)

type failingPublisher struct {
	failures int
	inner    *MemoryPublisher
}

func (p *failingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	return p.inner.Publish(ctx, eventType, payload, partitionKey)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enqueue(t *testing.T, outbox *memory.OutboxRepository, id, eventType, key string) {
	t.Helper()
	err := outbox.Enqueue(context.Background(), ports.OutboxRecord{
		OutboxID:     id,
		EventType:    eventType,
		PartitionKey: key,
		Payload:      []byte(`{"affiliate_id":"aff_1"}`),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestOutboxWorkerPublishesAndMarks(t *testing.T) {
	repos := memory.NewRepositories()
	publisher := NewMemoryPublisher()
	worker := NewOutboxWorker(testLogger(), repos.Outbox, publisher, time.Second, 10)

	enqueue(t, repos.Outbox, "ob_1", "affiliate.sale.recorded", "aff_1")
	enqueue(t, repos.Outbox, "ob_2", "affiliate.click.tracked", "aff_1")

	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	if got := len(publisher.Messages()); got != 2 {
		t.Fatalf("published %d messages, want 2", got)
	}
	remaining, _ := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if len(remaining) != 0 {
		t.Fatalf("%d records still unpublished", len(remaining))
	}
}

func TestOutboxWorkerRetriesFailedPublishes(t *testing.T) {
	repos := memory.NewRepositories()
	inner := NewMemoryPublisher()
	publisher := &failingPublisher{failures: 1, inner: inner}
	worker := NewOutboxWorker(testLogger(), repos.Outbox, publisher, time.Second, 10)

	enqueue(t, repos.Outbox, "ob_1", "affiliate.sale.recorded", "aff_1")

	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	remaining, _ := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if len(remaining) != 1 {
		t.Fatalf("failed record should stay queued, %d remaining", len(remaining))
	}
	if remaining[0].RetryCount != 1 {
		t.Fatalf("retry count = %d, want 1", remaining[0].RetryCount)
	}

	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if got := len(inner.Messages()); got != 1 {
		t.Fatalf("published %d messages after retry, want 1", got)
	}
	remaining, _ = repos.Outbox.FetchUnpublished(context.Background(), 10)
	if len(remaining) != 0 {
		t.Fatalf("%d records still unpublished after retry", len(remaining))
	}
}

func TestOutboxWorkerHonorsBatchSize(t *testing.T) {
	repos := memory.NewRepositories()
	publisher := NewMemoryPublisher()
	worker := NewOutboxWorker(testLogger(), repos.Outbox, publisher, time.Second, 1)

	enqueue(t, repos.Outbox, "ob_1", "affiliate.sale.recorded", "aff_1")
	enqueue(t, repos.Outbox, "ob_2", "affiliate.sale.recorded", "aff_2")

	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if got := len(publisher.Messages()); got != 1 {
		t.Fatalf("published %d messages in one batch, want 1", got)
	}
}
