package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveFrame(t *testing.T, sub *Subscriber) Envelope {
	t.Helper()
	select {
	case frame, ok := <-sub.C():
		require.True(t, ok, "subscriber channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

func TestHub_PublishDeliversToAllSubscribers(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())

	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)
	assert.Equal(t, 2, h.Count())

	h.Publish(EventTaskCreated, map[string]interface{}{"id": 1})

	for _, sub := range []*Subscriber{a, b} {
		env := receiveFrame(t, sub)
		assert.Equal(t, EventTaskCreated, env.Type)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), data["id"])
	}
}

func TestHub_LateSubscriberMissesEarlierEvents(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())

	h.Publish(EventProjectCreated, map[string]interface{}{"id": 1})

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	select {
	case frame := <-sub.C():
		t.Fatalf("unexpected replayed frame: %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FullBufferDropsFrame(t *testing.T) {
	h := NewHub(1, nil, zerolog.Nop())

	slow := h.Subscribe()
	defer h.Unsubscribe(slow)

	h.Publish(EventTaskUpdated, map[string]interface{}{"id": 1})
	h.Publish(EventTaskUpdated, map[string]interface{}{"id": 2})

	env := receiveFrame(t, slow)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])

	select {
	case frame, ok := <-slow.C():
		require.True(t, ok)
		t.Fatalf("expected second frame to be dropped, got %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())

	sub := h.Subscribe()
	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.Count())

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Second unsubscribe is a no-op, not a double close.
	h.Unsubscribe(sub)

	// Publishing with no subscribers must not panic.
	h.Publish(EventProjectDeleted, map[string]interface{}{"id": 9})
}

func TestHub_PublishConcurrentWithSubscribe(t *testing.T) {
	h := NewHub(64, nil, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.Publish(EventChatMessageCreated, map[string]interface{}{"seq": i})
		}
	}()

	for i := 0; i < 20; i++ {
		sub := h.Subscribe()
		h.Unsubscribe(sub)
	}
	<-done
}
