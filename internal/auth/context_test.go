package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/messaging"
)

func newSessionBus(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { bus.Close() })
	return bus
}

func waitForChange(t *testing.T, ch <-chan entity.SessionChanged) entity.SessionChanged {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session change")
		return entity.SessionChanged{}
	}
}

func TestSessionContextDispatchesToListeners(t *testing.T) {
	bus := newSessionBus(t)
	ctx := NewSessionContext()
	require.NoError(t, ctx.Run(context.Background(), bus))
	defer ctx.Close()

	got := make(chan entity.SessionChanged, 1)
	unsubscribe := ctx.Subscribe(func(event entity.SessionChanged) {
		got <- event
	})
	defer unsubscribe()

	pub := messaging.NewEventPublisher(bus)
	change := entity.SessionChanged{UserID: "u1", Token: "tok", Change: "signed_out", At: time.Now().UTC()}
	require.NoError(t, pub.PublishEvent(context.Background(), messaging.TopicSessions, change.UserID, change))

	event := waitForChange(t, got)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "signed_out", event.Change)
}

func TestSessionContextUnsubscribeStopsDelivery(t *testing.T) {
	bus := newSessionBus(t)
	ctx := NewSessionContext()
	require.NoError(t, ctx.Run(context.Background(), bus))
	defer ctx.Close()

	first := make(chan entity.SessionChanged, 1)
	unsubscribeFirst := ctx.Subscribe(func(event entity.SessionChanged) {
		first <- event
	})
	second := make(chan entity.SessionChanged, 1)
	unsubscribeSecond := ctx.Subscribe(func(event entity.SessionChanged) {
		second <- event
	})
	defer unsubscribeSecond()

	unsubscribeFirst()

	pub := messaging.NewEventPublisher(bus)
	change := entity.SessionChanged{UserID: "u2", Change: "signed_in", At: time.Now().UTC()}
	require.NoError(t, pub.PublishEvent(context.Background(), messaging.TopicSessions, change.UserID, change))

	// The remaining listener still sees the event; the removed one does not.
	waitForChange(t, second)
	select {
	case <-first:
		t.Fatal("removed listener still received an event")
	default:
	}
}

func TestSessionContextCloseStopsLoop(t *testing.T) {
	bus := newSessionBus(t)
	ctx := NewSessionContext()
	require.NoError(t, ctx.Run(context.Background(), bus))

	ctx.Close()

	// After Close the loop has drained; dispatch no longer runs.
	called := make(chan struct{}, 1)
	unsubscribe := ctx.Subscribe(func(entity.SessionChanged) {
		called <- struct{}{}
	})
	defer unsubscribe()

	pub := messaging.NewEventPublisher(bus)
	_ = pub.PublishEvent(context.Background(), messaging.TopicSessions, "u3", entity.SessionChanged{UserID: "u3"})

	select {
	case <-called:
		t.Fatal("listener ran after Close")
	case <-time.After(100 * time.Millisecond):
	}
}
