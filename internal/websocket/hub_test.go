package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	h := startHub(t)

	alice1 := NewClient(h, nil, "alice")
	alice2 := NewClient(h, nil, "alice")
	bob := NewClient(h, nil, "bob")
	for _, c := range []*Client{alice1, alice2, bob} {
		require.True(t, h.Add(c))
	}

	h.Publish("alice", "note.created", map[string]string{"id": "n1"})

	for _, c := range []*Client{alice1, alice2} {
		msg := receive(t, c)
		assert.Equal(t, "note.created", msg.Action)
		assert.Equal(t, map[string]interface{}{"id": "n1"}, msg.Payload)
	}

	h.Publish("bob", "note.deleted", nil)
	assert.Equal(t, "note.deleted", receive(t, bob).Action)
	assert.Empty(t, alice1.Send, "alice must not see bob's events")
}

func TestHub_RemoveClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, "alice")
	require.True(t, h.Add(c))

	h.Remove(c)
	h.Remove(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, "alice")
	sentinel := NewClient(h, nil, "sentinel")
	require.True(t, h.Add(c))
	require.True(t, h.Add(sentinel))

	for i := 0; i < sendBuffer+1; i++ {
		h.Publish("alice", "note.updated", i)
	}
	// Publishes are processed in order, so this arrives after alice's backlog.
	h.Publish("sentinel", "ping", nil)
	receive(t, sentinel)

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-c.Send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("slow consumer was not dropped")
		}
	}
}

func TestHub_StopReleasesClients(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	c := NewClient(h, nil, "alice")
	require.True(t, h.Add(c))
	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	_, ok := <-c.Send
	assert.False(t, ok)
	assert.False(t, h.Add(NewClient(h, nil, "bob")))
	h.Remove(c)
}

func TestHub_PublishWithoutRunDoesNotBlock(t *testing.T) {
	h := NewHub()
	for i := 0; i < publishBuffer+10; i++ {
		h.Publish("alice", "note.created", i)
	}
}

func TestNewErrorMessage(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal(NewErrorMessage("nope"), &msg))
	assert.Equal(t, "error", msg.Action)
	assert.Equal(t, map[string]interface{}{"message": "nope"}, msg.Payload)
}

func TestHub_ReplyTargetsOneConnection(t *testing.T) {
	h := startHub(t)
	a1 := NewClient(h, nil, "alice")
	a2 := NewClient(h, nil, "alice")
	require.True(t, h.Add(a1))
	require.True(t, h.Add(a2))

	h.Reply(a1, NewErrorMessage("only you"))
	assert.Equal(t, "error", receive(t, a1).Action)

	h.Publish("alice", "note.created", nil)
	assert.Equal(t, "note.created", receive(t, a2).Action, "a2 saw nothing before the broadcast")

	gone := NewClient(h, nil, "alice")
	h.Reply(gone, NewErrorMessage("nobody home"))
	h.Publish("alice", "note.updated", nil)
	assert.Equal(t, "note.created", receive(t, a1).Action)
	assert.Equal(t, "note.updated", receive(t, a1).Action)
	assert.Empty(t, gone.Send, "unregistered clients get no replies")
}
