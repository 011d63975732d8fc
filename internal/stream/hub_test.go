package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcastLocal(t *testing.T) {
	hub := NewHub(nil)

	sub := hub.Subscribe("act-1")
	defer hub.Unsubscribe(sub)
	other := hub.Subscribe("act-2")
	defer hub.Unsubscribe(other)

	hub.Broadcast("act-1", []byte("snap"))

	select {
	case msg := <-sub.Send:
		if string(msg) != "snap" {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("unexpected message on other activity: %s", msg)
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(nil)

	sub := hub.Subscribe("act-1")
	hub.Unsubscribe(sub)

	if _, ok := <-sub.Send; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}

	// Broadcasting after the last subscriber left must not panic.
	hub.Broadcast("act-1", []byte("snap"))
}

func TestHubSlowSubscriberSkipped(t *testing.T) {
	hub := NewHub(nil)

	sub := hub.Subscribe("act-1")
	defer hub.Unsubscribe(sub)

	for i := 0; i < cap(sub.Send)+10; i++ {
		hub.Broadcast("act-1", []byte("snap"))
	}
	if len(sub.Send) != cap(sub.Send) {
		t.Fatalf("expected full channel, got %d", len(sub.Send))
	}
}

func TestHubChannelNames(t *testing.T) {
	if liveChannel("act-1") != "live:act-1:updates" {
		t.Fatalf("unexpected channel name: %s", liveChannel("act-1"))
	}
	if got := activityIDFromChannel("live:act-1:updates"); got != "act-1" {
		t.Fatalf("unexpected activity id: %s", got)
	}
	if got := activityIDFromChannel("live::updates"); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}
}

func TestHubRedisRelay(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	hub := NewHub(client)
	sub := hub.Subscribe("act-1")
	defer hub.Unsubscribe(sub)

	// Give the relay subscription time to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("act-1", []byte("snap"))

	select {
	case msg := <-sub.Send:
		if string(msg) != "snap" {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// The snapshot travels through pub/sub once; the publishing instance
	// must not also deliver it directly, or subscribers see it twice.
	select {
	case msg := <-sub.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}

	// A publish from another instance is relayed to local subscribers.
	if err := client.Publish(context.Background(), "live:act-1:updates", "remote").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-sub.Send:
		if string(msg) != "remote" {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for relayed message")
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	sub := hub.Subscribe("act-1")
	defer hub.Unsubscribe(sub)

	// Publish fails against the stopped server, local delivery still works.
	hub.Broadcast("act-1", []byte("snap"))
	select {
	case <-sub.Send:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for local delivery")
	}
}
