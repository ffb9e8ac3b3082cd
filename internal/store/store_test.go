package store

import (
	"testing"
	"time"

	"codeberg.org/algorave/errorstack/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestStorePublishAndClear(t *testing.T) {
	s := New()

	_, ok := s.Current()
	assert.False(t, ok)

	s.Publish(parser.Record{Type: "App.Test", Message: "boom", Parsed: true})

	rec, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "boom", rec.Message)

	s.Clear()

	_, ok = s.Current()
	assert.False(t, ok)
}

func TestStoreSubscribe(t *testing.T) {
	s := New()
	defer s.Close()

	ch, unsubscribe := s.Subscribe(4)
	defer unsubscribe()

	s.Publish(parser.Record{Type: "App.Test", Message: "boom"})
	s.Clear()

	published := receive(t, ch)
	assert.Equal(t, EventPublished, published.Kind)
	require.NotNil(t, published.Record)
	assert.Equal(t, "boom", published.Record.Message)

	cleared := receive(t, ch)
	assert.Equal(t, EventCleared, cleared.Kind)
	assert.Nil(t, cleared.Record)
}

func TestStorePublishDoesNotBlock(t *testing.T) {
	s := New()
	defer s.Close()

	ch, unsubscribe := s.Subscribe(1)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		s.Publish(parser.Record{Message: "first"})
		s.Publish(parser.Record{Message: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	evt := receive(t, ch)
	assert.Equal(t, "first", evt.Record.Message)

	rec, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "second", rec.Message)
}

func TestStoreUnsubscribe(t *testing.T) {
	s := New()

	ch, unsubscribe := s.Subscribe(1)
	assert.Equal(t, 1, s.SubscriberCount())

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, s.SubscriberCount())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestStoreClose(t *testing.T) {
	s := New()

	ch, unsubscribe := s.Subscribe(1)
	s.Close()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := s.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestStoreAsChainSink(t *testing.T) {
	s := New()
	chain := parser.New(s)

	require.NoError(t, chain.Execute("oops"))

	rec, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "oops", rec.Message)
	assert.True(t, rec.Parsed)
}
