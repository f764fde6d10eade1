package notify

import (
	"context"
	"sync"
)

// MemoryEmailBackend appends every message it's asked to send; used by
// tests. Every command wires ResendEmailBackend instead.
type MemoryEmailBackend struct {
	mu   sync.Mutex
	Sent []EmailMessage
}

func (b *MemoryEmailBackend) Send(ctx context.Context, msg EmailMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, msg)
	return nil
}

type MemorySMSBackend struct {
	mu   sync.Mutex
	Sent []SMSMessage
}

func (b *MemorySMSBackend) Send(ctx context.Context, msg SMSMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, msg)
	return nil
}

type MemoryPushBackend struct {
	mu   sync.Mutex
	Sent []PushMessage
}

func (b *MemoryPushBackend) Send(ctx context.Context, msg PushMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, msg)
	return nil
}
