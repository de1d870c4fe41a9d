package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/messaging"
)

// SessionContext is the process-wide fan-out for session changes. It is
// constructed once at startup; components that need to react to sign-in and
// sign-out (cart registry, order feeds) register listeners instead of
// reaching into auth state directly.
type SessionContext struct {
	mu        sync.Mutex
	listeners map[int]func(entity.SessionChanged)
	nextID    int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSessionContext returns a context with no listeners. Call Run to start
// consuming session-change events.
func NewSessionContext() *SessionContext {
	return &SessionContext{
		listeners: make(map[int]func(entity.SessionChanged)),
		done:      make(chan struct{}),
	}
}

// Run subscribes to the sessions topic and dispatches events to listeners
// until ctx ends or Close is called.
func (c *SessionContext) Run(ctx context.Context, sub message.Subscriber) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	msgs, err := sub.Subscribe(ctx, messaging.TopicSessions)
	if err != nil {
		cancel()
		close(c.done)
		return err
	}

	go func() {
		defer close(c.done)
		for msg := range msgs {
			var event entity.SessionChanged
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				slog.Error("Failed to decode session change", "err", err)
				msg.Ack()
				continue
			}
			msg.Ack()
			c.dispatch(event)
		}
	}()
	return nil
}

// Subscribe registers fn for session changes and returns its removal
// function. Always call the removal function when the listener's owner goes
// away, so handlers do not leak across sessions.
func (c *SessionContext) Subscribe(fn func(entity.SessionChanged)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *SessionContext) dispatch(event entity.SessionChanged) {
	c.mu.Lock()
	fns := make([]func(entity.SessionChanged), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Close stops the event loop and waits for it to finish.
func (c *SessionContext) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	<-c.done
}
