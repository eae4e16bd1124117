package explorer

import (
	"encoding/json"
	"strings"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/humastar"
	"github.com/joeblew999/plat-explorer/internal/mapview"
)

// Signal names bound in the home template. Datastar lowercases data-bind
// names, so the projection fields use their lowercased ids.
const (
	SignalLayer         = "layer"
	SignalProjection    = "projection"
	SignalConic         = "conic"
	SignalComparing     = "comparing"
	SignalAOIDrawing    = "aoidrawing"
	SignalAOISelected   = "aoiselected"
	SignalAOIHasFeature = "aoihasfeature"
	SignalAOIActive     = "aoiactive"
)

// FieldSignal returns the signal bound to a projection parameter field.
func FieldSignal(id string) string {
	return strings.ToLower(id)
}

// PanelSignals returns the signals reflecting a host view.
func PanelSignals(v mapview.View) map[string]any {
	sig := map[string]any{
		SignalLayer:         v.Layer,
		SignalProjection:    v.Projection,
		SignalConic:         v.Conic,
		SignalComparing:     v.Comparing,
		SignalAOIDrawing:    v.AOI.Drawing,
		SignalAOISelected:   v.AOI.Selected,
		SignalAOIHasFeature: v.AOI.HasFeature(),
		SignalAOIActive:     v.AOI.Active(),
	}
	for _, id := range []string{catalog.FieldLng, catalog.FieldLat, catalog.FieldSParLat, catalog.FieldNParLat} {
		sig[FieldSignal(id)] = v.Settings.Get(id)
	}
	return sig
}

// InitialSignals returns the data-signals object for a freshly rendered
// page, before its host is mounted.
func InitialSignals(c *catalog.Catalog) (string, error) {
	p, _ := c.Projection(c.DefaultProjection)
	sig := PanelSignals(mapview.View{
		Layer:      c.DefaultLayer,
		Projection: c.DefaultProjection,
		Conic:      p.Conic,
		Settings:   catalog.DefaultSettings(),
		AOI:        aoi.State{},
	})
	sig["error"] = ""
	data, err := json.Marshal(sig)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// settingsFromSignals reads projection parameters, keeping current values
// for any field the signals do not carry.
func settingsFromSignals(sig humastar.Signals, current catalog.Settings) catalog.Settings {
	s := current
	for _, id := range []string{catalog.FieldLng, catalog.FieldLat, catalog.FieldSParLat, catalog.FieldNParLat} {
		if name := FieldSignal(id); sig.Has(name) {
			s = s.With(id, sig.Float(name))
		}
	}
	return s
}
