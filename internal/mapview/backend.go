// Package mapview coordinates the primary and comparison map instances of
// the explorer home view.
//
// Rendering, tile fetching, projection math, swipe comparison and drawing
// all belong to external libraries. The Host only issues configuration calls
// through the interfaces below and owns the handles it acquires.
package mapview

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/catalog"
)

// MapOptions configures a new map instance.
type MapOptions struct {
	Container       string     `json:"container"`
	Style           string     `json:"style"`
	LogoPosition    string     `json:"logoPosition"`
	PitchWithRotate bool       `json:"pitchWithRotate"`
	DragRotate      bool       `json:"dragRotate"`
	Zoom            float64    `json:"zoom"`
	Center          *orb.Point `json:"center,omitempty"`
}

// Control is a map control.
type Control interface {
	ControlName() string
}

// NavigationControl is the zoom control. The compass is left out.
type NavigationControl struct {
	ShowCompass bool `json:"showCompass"`
}

// ControlName implements Control.
func (NavigationControl) ControlName() string { return "navigation" }

// Map is a handle on a rendered map instance.
type Map interface {
	AddControl(c Control, position string)
	// AddRasterLayer registers l as a raster source and layer.
	AddRasterLayer(l catalog.Layer, visible bool, beforeID string)
	SetLayerVisibility(id string, visible bool)
	SetProjection(d catalog.Descriptor)
	// View returns the current center and zoom.
	View() (orb.Point, float64)
	Remove()
}

// CompareControl is the swipe control between two maps.
type CompareControl interface {
	Remove()
}

// Backend constructs map instances and comparison controls.
type Backend interface {
	NewMap(id string, opts MapOptions) Map
	NewCompare(secondary, primary Map, container string) CompareControl
}

// Theme holds the colours shared by the page chrome and the draw tool.
type Theme struct {
	Primary string `json:"primary"`
	Surface string `json:"surface"`
	Base    string `json:"base"`
}

// DrawOptions configures the draw tool.
type DrawOptions struct {
	MapID string `json:"mapId"`
}

// DrawAdapter bridges the AOI controller and the external draw tool.
// Setup binds the dispatch function the tool reports drawn-feature
// lifecycle events to; Update reconciles the tool with a transition;
// Teardown detaches the tool and drops its features.
type DrawAdapter interface {
	Setup(dispatch aoi.Dispatch, opts DrawOptions, theme Theme)
	Update(prev, next aoi.State)
	Teardown()
}
