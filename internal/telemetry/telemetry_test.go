package telemetry

import (
	"sync"
	"testing"

	"github.com/posthog/posthog-go"

	"github.com/joeblew999/plat-explorer/internal/service"
)

type fakeClient struct {
	mu     sync.Mutex
	msgs   []posthog.Message
	closed bool
}

func (c *fakeClient) Enqueue(m posthog.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

func TestNewClientWithoutKey(t *testing.T) {
	c, err := NewClient("", "https://eu.posthog.com")
	if err != nil || c != nil {
		t.Fatalf("client=%v err=%v, want nil nil", c, err)
	}
}

func TestForwardCaptures(t *testing.T) {
	bus := service.NewEventBus()
	client := &fakeClient{}
	f := Forward(bus, client)

	bus.Publish(service.Event{
		Session:    "tab-1",
		Action:     "layer-selected",
		Properties: map[string]any{"layer": "no2"},
	})
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if !client.closed {
		t.Fatal("client not closed")
	}
	if len(client.msgs) != 1 {
		t.Fatalf("captures=%d, want 1", len(client.msgs))
	}
	c, ok := client.msgs[0].(posthog.Capture)
	if !ok {
		t.Fatalf("message=%T, want posthog.Capture", client.msgs[0])
	}
	if c.DistinctId != "tab-1" || c.Event != "explorer layer-selected" {
		t.Fatalf("capture=%+v", c)
	}
	if c.Properties["layer"] != "no2" {
		t.Fatalf("properties=%v", c.Properties)
	}
}

func TestForwardNilClient(t *testing.T) {
	f := Forward(service.NewEventBus(), nil)
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
