package ws

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/windoze95/ingredai-api/internal/metrics"
)

func TestHub_RoomLifecycle(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	open := testutil.ToFloat64(metrics.VoiceConnections)

	a := newTestClient(hub, "room", "a")
	b := newTestClient(hub, "room", "b")

	hub.Broadcast <- &RoomMessage{RoomID: "room", Message: []byte(`{"type":"state"}`), Sender: a}
	if msg := readMessage(t, b); msg.Type != MsgTypeState {
		t.Errorf("b got %+v", msg)
	}
	assertNoMoreMessages(t, a)
	if hub.RoomSize("room") != 2 {
		t.Fatalf("room size = %d", hub.RoomSize("room"))
	}
	if got := testutil.ToFloat64(metrics.VoiceConnections); got != open+2 {
		t.Errorf("voice connections = %v, want %v", got, open+2)
	}

	hub.Unregister <- a
	hub.Unregister <- b
	// A second unregister of the same client is ignored.
	hub.Unregister <- b
	if hub.RoomSize("room") != 0 {
		t.Errorf("room size = %d, want 0", hub.RoomSize("room"))
	}
	if _, ok := <-a.Send; ok {
		t.Error("expected a.Send to be closed")
	}
	if got := testutil.ToFloat64(metrics.VoiceConnections); got != open {
		t.Errorf("voice connections = %v, want %v", got, open)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Hub: hub, Send: make(chan []byte), RoomID: "room", ID: "slow"}
	hub.Register <- slow
	fast := newTestClient(hub, "room", "fast")

	hub.Broadcast <- &RoomMessage{RoomID: "room", Message: []byte(`{"type":"state"}`)}
	readMessage(t, fast)

	// The next channel operation completes after the broadcast was handled.
	newTestClient(hub, "other", "barrier")
	if hub.RoomSize("room") != 1 {
		t.Errorf("room size = %d, want 1", hub.RoomSize("room"))
	}
	if _, ok := <-slow.Send; ok {
		t.Error("expected slow.Send to be closed")
	}
}

func TestHub_SendAfterUnregister(t *testing.T) {
	vh, _ := setupTestVoiceHandler()
	client := newTestClient(vh.Hub, "room", "gone")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			vh.send(client, MsgTypeFeedback, map[string]string{"message": "late"})
		}
	}()
	vh.Hub.Unregister <- client
	// Unregister is unbuffered, so the next operation runs after removal.
	newTestClient(vh.Hub, "other", "barrier")
	<-done

	if !client.Closed() {
		t.Fatal("expected the client to be closed after unregister")
	}
	if client.Queue([]byte(`{}`)) {
		t.Error("a removed client should not accept messages")
	}
	for range client.Send {
	}
}
