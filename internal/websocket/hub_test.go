package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"codeberg.org/algorave/errorstack/internal/parser"
	"codeberg.org/algorave/errorstack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, id string) *Client {
	return &Client{
		ID:        id,
		IPAddress: "127.0.0.1",
		hub:       hub,
		send:      make(chan []byte, 256),
	}
}

// waits for the next message on the client's send channel
func receive(t *testing.T, client *Client) Message {
	t.Helper()

	select {
	case data, ok := <-client.send:
		require.True(t, ok, "send channel closed")

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", client.ID)
		return Message{}
	}
}

func errorPayload(t *testing.T, msg Message) ErrorStatePayload {
	t.Helper()

	var payload ErrorStatePayload
	require.NoError(t, msg.UnmarshalPayload(&payload))
	return payload
}

func TestHubCreation(t *testing.T) {
	hub := NewHub(store.New())
	require.NotNil(t, hub)
	assert.NotNil(t, hub.Register)
	assert.NotNil(t, hub.Unregister)
	assert.NotNil(t, hub.Inbound)
}

func TestHubRegisterSendsErrorState(t *testing.T) {
	s := store.New()
	s.Publish(parser.Record{Type: "App.Test", Message: "boom", Parsed: true})

	hub := NewHub(s)
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	msg := receive(t, client)
	assert.Equal(t, TypeErrorState, msg.Type)

	payload := errorPayload(t, msg)
	require.NotNil(t, payload.Error)
	assert.Equal(t, "boom", payload.Error.Message)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubRegisterWithoutError(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	msg := receive(t, client)
	assert.Equal(t, TypeErrorState, msg.Type)
	assert.Nil(t, errorPayload(t, msg).Error)
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")

	hub.Register <- client
	hub.Unregister <- client

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, client.IsClosed())

	ok, _ := hub.CanAcceptConnection("127.0.0.1")
	assert.True(t, ok)
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	client1 := newTestClient(hub, "client-1")
	client2 := newTestClient(hub, "client-2")

	hub.Register <- client1
	hub.Register <- client2

	receive(t, client1)
	receive(t, client2)

	msg, err := NewMessage(TypeErrorCleared, ErrorStatePayload{})
	require.NoError(t, err)

	hub.BroadcastAll(msg)

	got1 := receive(t, client1)
	got2 := receive(t, client2)

	assert.Equal(t, TypeErrorCleared, got1.Type)
	assert.Equal(t, TypeErrorCleared, got2.Type)
	assert.Equal(t, got1.Sequence, got2.Sequence)
}

func TestHubConsumeStoreEvents(t *testing.T) {
	s := store.New()
	defer s.Close()

	hub := NewHub(s)
	go hub.Run()
	defer hub.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := s.Subscribe(8)
	defer unsubscribe()

	go hub.Consume(ctx, events)

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	receive(t, client)

	s.Publish(parser.Record{Type: "App.Test", Message: "boom", Parsed: true})

	published := receive(t, client)
	assert.Equal(t, TypeErrorPublished, published.Type)
	require.NotNil(t, errorPayload(t, published).Error)
	assert.Equal(t, "boom", errorPayload(t, published).Error.Message)

	s.Clear()

	cleared := receive(t, client)
	assert.Equal(t, TypeErrorCleared, cleared.Type)
	assert.Nil(t, errorPayload(t, cleared).Error)
}

func TestHubClearErrorHandler(t *testing.T) {
	s := store.New()
	s.Publish(parser.Record{Message: "boom"})

	hub := NewHub(s)
	hub.RegisterDefaultHandlers()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	receive(t, client)

	msg, err := NewMessage(TypeClearError, nil)
	require.NoError(t, err)
	msg.ClientID = client.ID

	hub.Inbound <- msg

	assert.Eventually(t, func() bool {
		_, ok := s.Current()
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestHubPingHandler(t *testing.T) {
	hub := NewHub(store.New())
	hub.RegisterDefaultHandlers()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	receive(t, client)

	msg, err := NewMessage(TypePing, nil)
	require.NoError(t, err)
	msg.ClientID = client.ID

	hub.Inbound <- msg

	assert.Equal(t, TypePong, receive(t, client).Type)
}

func TestHubUnhandledMessage(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	receive(t, client)

	msg, err := NewMessage("code_update", map[string]string{"code": "x"})
	require.NoError(t, err)
	msg.ClientID = client.ID

	hub.Inbound <- msg

	assert.Equal(t, TypeError, receive(t, client).Type)
}

func TestHubMessageHandler(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	var mu sync.Mutex
	var handled *Message

	hub.RegisterHandler("test_message", func(_ *Hub, _ *Client, msg *Message) error {
		mu.Lock()
		handled = msg
		mu.Unlock()
		return nil
	})

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	msg, err := NewMessage("test_message", map[string]any{"test": "data"})
	require.NoError(t, err)
	msg.ClientID = client.ID

	hub.Inbound <- msg

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return handled != nil
	}, time.Second, 10*time.Millisecond)
}

func TestHubConnectionLimit(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()
	defer hub.Shutdown()

	for range maxConnectionsPerIP {
		client := newTestClient(hub, GenerateClientID())
		client.IPAddress = "10.0.0.1"
		hub.Register <- client
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == maxConnectionsPerIP }, time.Second, 10*time.Millisecond)

	ok, reason := hub.CanAcceptConnection("10.0.0.1")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, _ = hub.CanAcceptConnection("10.0.0.2")
	assert.True(t, ok)
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub(store.New())
	go hub.Run()

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	receive(t, client)

	hub.Shutdown()
	hub.Shutdown()

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, client.IsClosed())
}
