package remote

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/mapview"
)

// CompareTarget is the command target of the swipe control.
const CompareTarget = "compare-control"

// Backend implements mapview.Backend on top of an Outbox.
type Backend struct {
	out  *Outbox
	mu   sync.Mutex
	maps map[string]*Map
}

// NewBackend creates a backend writing to out.
func NewBackend(out *Outbox) *Backend {
	return &Backend{out: out, maps: make(map[string]*Map)}
}

// NewMap implements mapview.Backend.
func (b *Backend) NewMap(id string, opts mapview.MapOptions) mapview.Map {
	m := &Map{id: id, backend: b, zoom: opts.Zoom}
	if opts.Center != nil {
		m.center = *opts.Center
	}

	b.mu.Lock()
	b.maps[id] = m
	b.mu.Unlock()

	b.out.Push(Command{Target: id, Op: "create", Args: opts})
	return m
}

// NewCompare implements mapview.Backend.
func (b *Backend) NewCompare(secondary, primary mapview.Map, container string) mapview.CompareControl {
	b.out.Push(Command{Target: CompareTarget, Op: "create", Args: map[string]string{
		"secondary": mapID(secondary),
		"primary":   mapID(primary),
		"container": container,
	}})
	return &compareControl{out: b.out}
}

// ReportView records the view the browser reported for a map. It returns
// false if no such map is alive.
func (b *Backend) ReportView(id string, center orb.Point, zoom float64) bool {
	b.mu.Lock()
	m, ok := b.maps[id]
	b.mu.Unlock()
	if !ok {
		return false
	}
	m.mu.Lock()
	m.center, m.zoom = center, zoom
	m.mu.Unlock()
	return true
}

// Live returns the ids of maps that have not been removed.
func (b *Backend) Live() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.maps))
	for id := range b.maps {
		ids = append(ids, id)
	}
	return ids
}

func mapID(m mapview.Map) string {
	if rm, ok := m.(*Map); ok {
		return rm.id
	}
	return ""
}

// Map is a browser-side map instance.
type Map struct {
	id      string
	backend *Backend

	mu     sync.Mutex
	center orb.Point
	zoom   float64
}

func (m *Map) push(op string, args any) {
	m.backend.out.Push(Command{Target: m.id, Op: op, Args: args})
}

// AddControl implements mapview.Map.
func (m *Map) AddControl(c mapview.Control, position string) {
	m.push("addControl", map[string]any{
		"type":     c.ControlName(),
		"options":  c,
		"position": position,
	})
}

type rasterLayerArgs struct {
	ID       string   `json:"id"`
	Tiles    []string `json:"tiles"`
	Opacity  float64  `json:"opacity"`
	Visible  bool     `json:"visible"`
	BeforeID string   `json:"before,omitempty"`
}

// AddRasterLayer implements mapview.Map.
func (m *Map) AddRasterLayer(l catalog.Layer, visible bool, beforeID string) {
	m.push("addRasterLayer", rasterLayerArgs{
		ID:       l.ID,
		Tiles:    []string{l.URL},
		Opacity:  l.Opacity,
		Visible:  visible,
		BeforeID: beforeID,
	})
}

// SetLayerVisibility implements mapview.Map.
func (m *Map) SetLayerVisibility(id string, visible bool) {
	v := "none"
	if visible {
		v = "visible"
	}
	m.push("setLayoutProperty", []any{id, "visibility", v})
}

// SetProjection implements mapview.Map.
func (m *Map) SetProjection(d catalog.Descriptor) {
	m.push("setProjection", d)
}

// View implements mapview.Map with the last view the browser reported.
func (m *Map) View() (orb.Point, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center, m.zoom
}

// Remove implements mapview.Map.
func (m *Map) Remove() {
	m.backend.mu.Lock()
	delete(m.backend.maps, m.id)
	m.backend.mu.Unlock()
	m.push("remove", nil)
}

type compareControl struct {
	out     *Outbox
	removed bool
}

func (c *compareControl) Remove() {
	if c.removed {
		return
	}
	c.removed = true
	c.out.Push(Command{Target: CompareTarget, Op: "remove"})
}
