package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/starford/quill/internal/groupid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// drain collects every message currently buffered on ch.
func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "note.created", Data: map[string]string{"path": "a.md"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: note.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"a.md"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishNoteEvent_Payload(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteEvent("updated", "/ws/dev/work/a.md", "dev/work")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.HasPrefix(s, "event: note.updated\ndata: ") {
			t.Fatalf("unexpected frame %q", s)
		}
		data := strings.TrimSuffix(strings.TrimPrefix(s, "event: note.updated\ndata: "), "\n\n")
		var ev NoteEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatal(err)
		}
		want := NoteEvent{Path: "/ws/dev/work/a.md", Group: "dev/work", GroupID: groupid.Of("dev/work")}
		if ev != want {
			t.Errorf("event = %+v, want %+v", ev, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishNoteEvent_GroupsThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// The first creation triggers groups.updated, the next one is throttled.
	b.PublishNoteEvent("created", "a.md", "dev/work")
	b.PublishNoteEvent("deleted", "b.md", "dev/life")
	b.PublishNoteEvent("updated", "c.md", "dev/life")

	time.Sleep(50 * time.Millisecond)
	groupsCount, noteCount := 0, 0
	for _, s := range drain(ch) {
		if strings.Contains(s, "groups.updated") {
			groupsCount++
		} else {
			noteCount++
		}
	}

	if noteCount != 3 {
		t.Errorf("note events = %d, want 3", noteCount)
	}
	if groupsCount != 1 {
		t.Errorf("groups events = %d, want 1 (throttled)", groupsCount)
	}
}

func TestPublishNoteEvent_UpdateDoesNotTouchGroups(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteEvent("updated", "a.md", "dev/work")
	b.PublishNoteEvent("renamed", "a.md", "dev/work")

	time.Sleep(50 * time.Millisecond)
	msgs := drain(ch)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "note.updated") {
		t.Errorf("messages = %q, want a single note.updated", msgs)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishNoteEvent("updated", "x.md", "dev/work")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: note.updated") {
		t.Errorf("handler output missing event: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// The client buffer holds 64; the rest must be dropped without blocking.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// No-ops after close.
	b.Publish(Event{Type: "note.updated", Data: map[string]string{"path": "x.md"}})
	b.PublishNoteEvent("updated", "x.md", "dev/work")
	b.Close()
}
