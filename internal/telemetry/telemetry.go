// Package telemetry forwards explorer view events to PostHog.
package telemetry

import (
	"log"

	"github.com/posthog/posthog-go"

	"github.com/joeblew999/plat-explorer/internal/service"
)

// Client is the subset of posthog.Client the forwarder needs.
type Client interface {
	Enqueue(posthog.Message) error
	Close() error
}

// NewClient returns a PostHog client, or nil when no key is configured.
func NewClient(key, host string) (Client, error) {
	if key == "" {
		return nil, nil
	}
	return posthog.NewWithConfig(key, posthog.Config{Endpoint: host})
}

// Forwarder subscribes to an event bus and enqueues every event as a capture.
type Forwarder struct {
	client Client
	bus    *service.EventBus
	ch     chan service.Event
	done   chan struct{}
}

// Forward starts forwarding bus events to client. A nil client yields a
// forwarder that does nothing.
func Forward(bus *service.EventBus, client Client) *Forwarder {
	f := &Forwarder{client: client, bus: bus, done: make(chan struct{})}
	if client == nil || bus == nil {
		close(f.done)
		return f
	}
	f.ch = bus.Subscribe()
	go f.run()
	return f
}

func (f *Forwarder) run() {
	defer close(f.done)
	for ev := range f.ch {
		props := posthog.NewProperties()
		for k, v := range ev.Properties {
			props.Set(k, v)
		}
		err := f.client.Enqueue(posthog.Capture{
			DistinctId: ev.Session,
			Event:      "explorer " + ev.Action,
			Properties: props,
		})
		if err != nil {
			log.Printf("telemetry: enqueue %s: %v", ev.Action, err)
		}
	}
}

// Close stops forwarding and flushes the client.
func (f *Forwarder) Close() error {
	if f.ch == nil {
		return nil
	}
	f.bus.Unsubscribe(f.ch)
	<-f.done
	f.ch = nil
	return f.client.Close()
}
