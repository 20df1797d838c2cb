package events

import (
	"context"
	"sync"
)

// MemoryPublisher records published messages for assertions in tests.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
}

type PublishedMessage struct {
	EventType    string
	Payload      []byte
	PartitionKey string
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	p.messages = append(p.messages, PublishedMessage{
		EventType:    eventType,
		Payload:      buf,
		PartitionKey: partitionKey,
	})
	return nil
}

func (p *MemoryPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}
