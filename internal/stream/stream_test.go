package stream

import (
	"context"
	"testing"
	"time"

	"parlor.chat/internal/audit"
)

func TestSubscribeReceivesPublished(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	s.Publish(audit.Entry{Event: "admin.license.create"})

	select {
	case entry := <-ch:
		if entry.Event != "admin.license.create" {
			t.Fatalf("unexpected event: %q", entry.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for entry")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = s.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		// Channel buffer is 16; publishing more must not block even though
		// nobody reads.
		for i := 0; i < 100; i++ {
			s.Publish(audit.Entry{Event: "admin.user.ban"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}

func TestSubscriberClosedOnContextEnd(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel without value")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context end")
	}
}
