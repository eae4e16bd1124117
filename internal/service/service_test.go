package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/mapview"
)

func TestCatalogServiceDefault(t *testing.T) {
	s, err := NewCatalogService(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Layer("co2"); !ok {
		t.Fatal("co2 missing from default catalog")
	}
	if n := len(s.Projections()); n != 8 {
		t.Fatalf("projections=%d, want 8", n)
	}
}

func TestCatalogServiceReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCatalogService(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("layers: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if len(s.Layers()) != 2 {
		t.Fatal("previous catalog lost after failed reload")
	}
}

func TestSessionLifecycle(t *testing.T) {
	bus := NewEventBus()
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	svc := NewSessionService(mapview.Config{Style: "mapbox://styles/test"}, bus)
	sess := svc.Create()

	if sess.Do(func(*mapview.Host) {}) {
		t.Fatal("host should not exist before attach")
	}

	if _, err := svc.Attach(sess.ID); err != nil {
		t.Fatal(err)
	}
	if ev := <-events; ev.Action != "mounted" || ev.Session != sess.ID {
		t.Fatalf("event=%+v, want mounted", ev)
	}
	if sess.Outbox().Len() == 0 {
		t.Fatal("mount queued no commands")
	}

	var mounted bool
	sess.Do(func(h *mapview.Host) { mounted = h.Mounted() })
	if !mounted {
		t.Fatal("host not mounted after attach")
	}

	if !sess.ReportView(mapview.PrimaryID, orb.Point{1, 2}, 4) {
		t.Fatal("primary map not known to backend")
	}

	sess.Do(func(h *mapview.Host) { h.DispatchAOI(aoi.Action{Type: aoi.DrawClick}) })
	if !sess.ReceiveAOI(aoi.Action{Type: aoi.DrawFinish}) {
		t.Fatal("draw adapter not bound")
	}

	svc.Detach(sess)
	if !sess.Do(func(*mapview.Host) {}) {
		t.Fatal("host released when its stream detached")
	}

	svc.Close(sess.ID)
	if sess.Do(func(*mapview.Host) {}) {
		t.Fatal("host should be released after close")
	}
	if sess.ReceiveAOI(aoi.Action{Type: aoi.Clear}) {
		t.Fatal("draw adapter should be released after close")
	}
	if ev := <-events; ev.Action != "unmounted" {
		t.Fatalf("event=%+v, want unmounted", ev)
	}
}

func TestReconnectKeepsView(t *testing.T) {
	bus := NewEventBus()
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)
	svc := NewSessionService(mapview.Config{}, bus)
	sess := svc.Create()

	if _, err := svc.Attach(sess.ID); err != nil {
		t.Fatal(err)
	}
	sess.Do(func(h *mapview.Host) {
		if err := h.SelectLayer("no2"); err != nil {
			t.Fatal(err)
		}
		h.SetComparing(true)
	})
	svc.Detach(sess)
	sess.Outbox().Drain()

	if _, err := svc.Attach(sess.ID); err != nil {
		t.Fatal(err)
	}
	v, ok := sess.Snapshot()
	if !ok || v.Layer != "no2" || !v.Comparing {
		t.Fatalf("view=%+v after reconnect, want no2 comparing", v)
	}
	if n := sess.Outbox().Len(); n != 0 {
		t.Fatalf("reconnect queued %d commands, want 0", n)
	}

	var actions []string
	for len(events) > 0 {
		actions = append(actions, (<-events).Action)
	}
	if len(actions) != 1 || actions[0] != "mounted" {
		t.Fatalf("events=%v, want a single mounted", actions)
	}
}

func TestDetachWithOtherStreamsPublishesNothing(t *testing.T) {
	bus := NewEventBus()
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)
	svc := NewSessionService(mapview.Config{}, bus)
	sess := svc.Create()

	svc.Attach(sess.ID)
	svc.Attach(sess.ID)
	<-events
	svc.Detach(sess)
	svc.Detach(sess)
	if n := len(events); n != 0 {
		t.Fatalf("events=%d after detaching, want 0", n)
	}

	svc.Close(sess.ID)
	svc.Close(sess.ID)
	if ev := <-events; ev.Action != "unmounted" {
		t.Fatalf("event=%+v, want unmounted", ev)
	}
	if n := len(events); n != 0 {
		t.Fatalf("closing twice published %d extra events", n)
	}
}

func TestSessionNotFound(t *testing.T) {
	svc := NewSessionService(mapview.Config{}, nil)
	if _, err := svc.Attach("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err=%v, want ErrSessionNotFound", err)
	}
}

func TestReapIdleSessions(t *testing.T) {
	svc := NewSessionService(mapview.Config{}, nil)
	idle := svc.Create()
	live := svc.Create()
	if _, err := svc.Attach(live.ID); err != nil {
		t.Fatal(err)
	}

	time.Sleep(5 * time.Millisecond)
	if n := svc.Reap(time.Millisecond); n != 1 {
		t.Fatalf("reaped=%d, want 1", n)
	}
	if _, err := svc.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("idle session not reaped")
	}
	if _, err := svc.Get(live.ID); err != nil {
		t.Fatal("attached session reaped")
	}
}

func TestEventBusFanOut(t *testing.T) {
	bus := NewEventBus()
	a, b := bus.Subscribe(), bus.Subscribe()
	bus.Publish(Event{Session: "s", Action: "layer-selected"})

	for _, ch := range []chan Event{a, b} {
		if ev := <-ch; ev.Action != "layer-selected" {
			t.Fatalf("event=%+v", ev)
		}
	}
	bus.Unsubscribe(a)
	bus.Unsubscribe(b)
}
