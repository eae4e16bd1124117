package mapview

import (
	"fmt"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/catalog"
)

// Map ids and DOM anchors used by the home view.
const (
	PrimaryID    = "primary"
	CompareID    = "compare"
	MapsSelector = "#container"

	// Raster layers are inserted below this style layer so borders stay on top.
	BeforeLayerID = "admin-0-boundary-bg"
)

// Config holds the fixed map settings of the home view.
type Config struct {
	Catalog *catalog.Catalog
	Style   string
	Zoom    float64
	Theme   Theme
}

// View is the panel-facing snapshot of a host.
type View struct {
	Layer      string           `json:"layer"`
	Projection string           `json:"projection"`
	Conic      bool             `json:"conic"`
	Settings   catalog.Settings `json:"settings"`
	Comparing  bool             `json:"comparing"`
	AOI        aoi.State        `json:"aoi"`
}

// Host owns the primary map, the optional comparison map with its swipe
// control, and the AOI controller of one mounted home view.
// A Host is not safe for concurrent use; callers serialise access.
type Host struct {
	cfg     Config
	backend Backend
	draw    DrawAdapter

	primary    Map
	compare    Map
	compareCtl CompareControl
	loaded     bool

	layer      string
	projection string
	settings   catalog.Settings
	comparing  bool
	theme      Theme

	aoi *aoi.Controller
}

// NewHost creates an unmounted host.
func NewHost(backend Backend, draw DrawAdapter, cfg Config) *Host {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 3
	}
	h := &Host{
		cfg:        cfg,
		backend:    backend,
		draw:       draw,
		layer:      cfg.Catalog.DefaultLayer,
		projection: cfg.Catalog.DefaultProjection,
		settings:   catalog.DefaultSettings(),
		theme:      cfg.Theme,
	}
	h.aoi = aoi.NewController(h.syncDraw)
	return h
}

func (h *Host) syncDraw(prev, next aoi.State) {
	if h.draw != nil {
		h.draw.Update(prev, next)
	}
}

func (h *Host) mapOptions(container string) MapOptions {
	return MapOptions{
		Container:       container,
		Style:           h.cfg.Style,
		LogoPosition:    "bottom-left",
		PitchWithRotate: false,
		DragRotate:      false,
		Zoom:            h.cfg.Zoom,
	}
}

// Mount creates the primary map and binds the AOI draw tool. Mounting twice
// is a no-op.
func (h *Host) Mount() {
	if h.primary != nil {
		return
	}
	h.primary = h.backend.NewMap(PrimaryID, h.mapOptions("map"))
	h.primary.AddControl(NavigationControl{ShowCompass: false}, "top-left")
	h.primary.SetProjection(h.descriptor())
	h.bindAOI()
}

// Mounted reports whether the primary map exists.
func (h *Host) Mounted() bool {
	return h.primary != nil
}

// Loaded registers every catalog layer on the primary map once its style
// has loaded. Only the active layer starts visible.
func (h *Host) Loaded() {
	if h.primary == nil || h.loaded {
		return
	}
	for _, l := range h.cfg.Catalog.Layers {
		h.primary.AddRasterLayer(l, l.ID == h.layer, BeforeLayerID)
	}
	h.loaded = true
}

// SelectLayer makes id the single visible raster layer.
func (h *Host) SelectLayer(id string) error {
	if _, ok := h.cfg.Catalog.Layer(id); !ok {
		return fmt.Errorf("layer %q: %w", id, catalog.ErrUnknownLayer)
	}
	h.layer = id
	if h.primary == nil || !h.loaded {
		return nil
	}
	for _, l := range h.cfg.Catalog.Layers {
		h.primary.SetLayerVisibility(l.ID, l.ID == id)
	}
	return nil
}

// SetProjection switches the projection of both maps.
func (h *Host) SetProjection(name string) error {
	if _, ok := h.cfg.Catalog.Projection(name); !ok {
		return fmt.Errorf("projection %q: %w", name, catalog.ErrUnknownProjection)
	}
	h.projection = name
	h.applyProjection()
	return nil
}

// SetProjectionSettings updates center and parallels, clamped to the field
// ranges, and reapplies the projection.
func (h *Host) SetProjectionSettings(s catalog.Settings) {
	h.settings = s.Clamp(h.cfg.Catalog.Fields)
	h.applyProjection()
}

func (h *Host) descriptor() catalog.Descriptor {
	return catalog.Describe(h.projection, h.settings)
}

func (h *Host) applyProjection() {
	d := h.descriptor()
	if h.primary != nil {
		h.primary.SetProjection(d)
	}
	if h.compare != nil {
		h.compare.SetProjection(d)
	}
}

// SetComparing creates or tears down the comparison map and swipe control.
func (h *Host) SetComparing(on bool) {
	h.comparing = on
	if on {
		h.openCompare()
	} else {
		h.closeCompare()
	}
}

func (h *Host) openCompare() {
	if h.primary == nil || h.compare != nil {
		return
	}
	center, zoom := h.primary.View()
	opts := h.mapOptions("map-compare")
	opts.Center = &center
	opts.Zoom = zoom

	h.compare = h.backend.NewMap(CompareID, opts)
	h.compare.AddControl(NavigationControl{ShowCompass: false}, "top-left")
	h.compare.SetProjection(h.descriptor())
	h.compareCtl = h.backend.NewCompare(h.compare, h.primary, MapsSelector)
}

func (h *Host) closeCompare() {
	if h.compareCtl != nil {
		h.compareCtl.Remove()
		h.compareCtl = nil
	}
	if h.compare != nil {
		h.compare.Remove()
		h.compare = nil
	}
}

// SetTheme rebinds the draw tool when the theme changes.
func (h *Host) SetTheme(t Theme) {
	if t == h.theme {
		return
	}
	h.theme = t
	if h.primary != nil {
		h.bindAOI()
	}
}

func (h *Host) bindAOI() {
	if h.draw == nil {
		return
	}
	h.draw.Setup(h.aoi.Dispatch, DrawOptions{MapID: PrimaryID}, h.theme)
}

// DispatchAOI feeds an action to the AOI controller.
func (h *Host) DispatchAOI(a aoi.Action) {
	h.aoi.Dispatch(a)
}

// AOI returns the current AOI state.
func (h *Host) AOI() aoi.State {
	return h.aoi.State()
}

// Snapshot returns the panel view of the host.
func (h *Host) Snapshot() View {
	p, _ := h.cfg.Catalog.Projection(h.projection)
	return View{
		Layer:      h.layer,
		Projection: h.projection,
		Conic:      p.Conic,
		Settings:   h.settings,
		Comparing:  h.comparing,
		AOI:        h.aoi.State(),
	}
}

// Unmount releases the comparison map, its control, the draw tool and the
// primary map. The AOI starts empty on the next mount.
func (h *Host) Unmount() {
	h.closeCompare()
	h.comparing = false
	if h.primary != nil {
		if h.draw != nil {
			h.draw.Teardown()
		}
		h.primary.Remove()
		h.primary = nil
	}
	h.loaded = false
	h.aoi = aoi.NewController(h.syncDraw)
}
