package mapview

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/catalog"
)

type fakeMap struct {
	id         string
	opts       MapOptions
	controls   []Control
	layers     []string
	visible    map[string]bool
	projection *catalog.Descriptor
	removed    bool
}

func (m *fakeMap) AddControl(c Control, position string) { m.controls = append(m.controls, c) }

func (m *fakeMap) AddRasterLayer(l catalog.Layer, visible bool, beforeID string) {
	m.layers = append(m.layers, l.ID)
	m.visible[l.ID] = visible
}

func (m *fakeMap) SetLayerVisibility(id string, visible bool) { m.visible[id] = visible }

func (m *fakeMap) SetProjection(d catalog.Descriptor) { m.projection = &d }

func (m *fakeMap) View() (orb.Point, float64) { return orb.Point{12, 55}, 5 }

func (m *fakeMap) Remove() { m.removed = true }

type fakeCompare struct {
	secondary, primary Map
	container          string
	removed            bool
}

func (c *fakeCompare) Remove() { c.removed = true }

type fakeBackend struct {
	maps     []*fakeMap
	compares []*fakeCompare
}

func (b *fakeBackend) NewMap(id string, opts MapOptions) Map {
	m := &fakeMap{id: id, opts: opts, visible: map[string]bool{}}
	b.maps = append(b.maps, m)
	return m
}

func (b *fakeBackend) NewCompare(secondary, primary Map, container string) CompareControl {
	c := &fakeCompare{secondary: secondary, primary: primary, container: container}
	b.compares = append(b.compares, c)
	return c
}

type fakeDraw struct {
	setups    int
	teardowns int
	theme    Theme
	dispatch aoi.Dispatch
	updates  [][2]aoi.State
}

func (d *fakeDraw) Setup(dispatch aoi.Dispatch, opts DrawOptions, theme Theme) {
	d.setups++
	d.dispatch = dispatch
	d.theme = theme
}

func (d *fakeDraw) Teardown() {
	d.teardowns++
	d.dispatch = nil
}

func (d *fakeDraw) Update(prev, next aoi.State) {
	d.updates = append(d.updates, [2]aoi.State{prev, next})
}

func newTestHost() (*Host, *fakeBackend, *fakeDraw) {
	b := &fakeBackend{}
	d := &fakeDraw{}
	h := NewHost(b, d, Config{Style: "mapbox://styles/test", Theme: Theme{Primary: "#2276ac"}})
	return h, b, d
}

func TestMountCreatesPrimaryOnce(t *testing.T) {
	h, b, d := newTestHost()
	h.Mount()
	h.Mount()

	if len(b.maps) != 1 {
		t.Fatalf("maps=%d, want 1", len(b.maps))
	}
	m := b.maps[0]
	if m.id != PrimaryID {
		t.Fatalf("id=%q, want %q", m.id, PrimaryID)
	}
	if m.opts.Zoom != 3 || m.opts.DragRotate || m.opts.PitchWithRotate || m.opts.LogoPosition != "bottom-left" {
		t.Fatalf("options=%+v", m.opts)
	}
	if len(m.controls) != 1 {
		t.Fatalf("controls=%d, want 1", len(m.controls))
	}
	if nav, ok := m.controls[0].(NavigationControl); !ok || nav.ShowCompass {
		t.Fatalf("control=%#v, want navigation without compass", m.controls[0])
	}
	if d.setups != 1 {
		t.Fatalf("draw setups=%d, want 1", d.setups)
	}
}

func TestLoadedRegistersLayers(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()
	h.Loaded()
	h.Loaded()

	m := b.maps[0]
	if len(m.layers) != 2 {
		t.Fatalf("layers=%v, want 2 registered once", m.layers)
	}
	if !m.visible["co2"] || m.visible["no2"] {
		t.Fatalf("visibility=%v, want only co2", m.visible)
	}
}

func TestSelectLayerExactlyOneVisible(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()
	h.Loaded()
	m := b.maps[0]

	for _, l := range catalog.Default().Layers {
		if err := h.SelectLayer(l.ID); err != nil {
			t.Fatal(err)
		}
		visible := 0
		for id, v := range m.visible {
			if v {
				visible++
				if id != l.ID {
					t.Fatalf("layer %q visible, want only %q", id, l.ID)
				}
			}
		}
		if visible != 1 {
			t.Fatalf("visible=%d, want 1", visible)
		}
	}
}

func TestSelectUnknownLayer(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()
	h.Loaded()

	err := h.SelectLayer("ch4")
	if !errors.Is(err, catalog.ErrUnknownLayer) {
		t.Fatalf("err=%v, want ErrUnknownLayer", err)
	}
	if h.Snapshot().Layer != "co2" || !b.maps[0].visible["co2"] {
		t.Fatal("unknown layer changed the selection")
	}
}

func TestSelectBeforeLoadAppliesOnLoad(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()
	if err := h.SelectLayer("no2"); err != nil {
		t.Fatal(err)
	}
	h.Loaded()

	if m := b.maps[0]; !m.visible["no2"] || m.visible["co2"] {
		t.Fatalf("visibility=%v, want only no2", m.visible)
	}
}

func TestProjectionAppliedToBothMaps(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()
	h.SetComparing(true)

	if err := h.SetProjection("albers"); err != nil {
		t.Fatal(err)
	}
	h.SetProjectionSettings(catalog.Settings{Lng: 10, Lat: 20, SParLat: 25, NParLat: 45})

	want := catalog.Descriptor{Name: "albers", Center: [2]float64{10, 20}, Parallels: [2]float64{25, 45}}
	for _, m := range b.maps {
		if m.projection == nil || *m.projection != want {
			t.Fatalf("map %s projection=%v, want %v", m.id, m.projection, want)
		}
	}
}

func TestUnknownProjection(t *testing.T) {
	h, _, _ := newTestHost()
	h.Mount()
	if err := h.SetProjection("dymaxion"); !errors.Is(err, catalog.ErrUnknownProjection) {
		t.Fatalf("err=%v, want ErrUnknownProjection", err)
	}
	if h.Snapshot().Projection != "mercator" {
		t.Fatalf("projection=%q, want mercator", h.Snapshot().Projection)
	}
}

func TestCompareToggleLeavesNothingBehind(t *testing.T) {
	h, b, _ := newTestHost()
	h.Mount()

	h.SetComparing(true)
	h.SetComparing(true)
	if len(b.maps) != 2 || len(b.compares) != 1 {
		t.Fatalf("maps=%d compares=%d, want 2 and 1", len(b.maps), len(b.compares))
	}

	cmp := b.maps[1]
	if cmp.id != CompareID {
		t.Fatalf("id=%q, want %q", cmp.id, CompareID)
	}
	if cmp.opts.Center == nil || *cmp.opts.Center != (orb.Point{12, 55}) || cmp.opts.Zoom != 5 {
		t.Fatalf("compare map not seeded from primary view: %+v", cmp.opts)
	}
	ctl := b.compares[0]
	if ctl.secondary != Map(cmp) || ctl.primary != Map(b.maps[0]) || ctl.container != MapsSelector {
		t.Fatalf("compare control bound to %+v", ctl)
	}

	h.SetComparing(false)
	h.SetComparing(false)
	if h.compare != nil || h.compareCtl != nil {
		t.Fatal("comparison references not released")
	}
	if !ctl.removed || !cmp.removed {
		t.Fatal("comparison map or control not removed")
	}
	if b.maps[0].removed {
		t.Fatal("primary map removed by compare toggle")
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	h, b, d := newTestHost()
	h.Mount()
	h.SetComparing(true)
	h.DispatchAOI(aoi.Action{Type: aoi.DrawClick})
	h.Unmount()
	h.Unmount()

	if d.teardowns != 1 {
		t.Fatalf("draw teardowns=%d, want 1", d.teardowns)
	}
	if h.AOI().Active() {
		t.Fatalf("aoi=%+v after unmount, want empty", h.AOI())
	}

	for _, m := range b.maps {
		if !m.removed {
			t.Fatalf("map %s not removed", m.id)
		}
	}
	if !b.compares[0].removed {
		t.Fatal("compare control not removed")
	}
	if h.Mounted() || h.Snapshot().Comparing {
		t.Fatal("host still mounted or comparing")
	}
}

func TestAOIWiring(t *testing.T) {
	h, _, d := newTestHost()
	h.Mount()

	d.dispatch(aoi.Action{Type: aoi.DrawClick})
	f := geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	d.dispatch(aoi.Action{Type: aoi.DrawFinish, Feature: f})

	if len(d.updates) != 2 {
		t.Fatalf("updates=%d, want 2", len(d.updates))
	}
	last := d.updates[1][1]
	if last.Feature != f || last.Origin != aoi.OriginMap || last.Drawing {
		t.Fatalf("last state=%+v", last)
	}
	if h.AOI().Feature != f {
		t.Fatal("host AOI state out of date")
	}
}

func TestThemeChangeRebindsDraw(t *testing.T) {
	h, _, d := newTestHost()
	h.Mount()
	h.SetTheme(Theme{Primary: "#2276ac"})
	if d.setups != 1 {
		t.Fatalf("setups=%d, want 1 for an unchanged theme", d.setups)
	}
	h.SetTheme(Theme{Primary: "#000"})
	if d.setups != 2 || d.theme.Primary != "#000" {
		t.Fatalf("setups=%d theme=%+v", d.setups, d.theme)
	}
}
