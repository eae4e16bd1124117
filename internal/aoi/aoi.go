// Package aoi implements the area-of-interest interaction controller.
//
// The controller reduces actions coming from the map (draw tool callbacks)
// and from the panel (buttons) into a single State. Every state carries the
// Origin of the action that produced it so the draw tool synchronisation can
// skip echoing a map change back to the map.
package aoi

import (
	"sync"

	"github.com/paulmach/orb/geojson"
)

// Origin identifies which actor produced a state.
type Origin string

const (
	OriginNone  Origin = ""
	OriginMap   Origin = "map"
	OriginPanel Origin = "panel"
)

// Action names.
const (
	DrawFinish = "aoi.draw-finish" // map: a polygon was completed
	Selection  = "aoi.selection"   // map: the feature was (de)selected
	Update     = "aoi.update"      // map: the feature was edited
	DrawClick  = "aoi.draw-click"  // panel: toggle drawing or selection
	Clear      = "aoi.clear"       // panel: discard the feature
)

// State is the AOI interaction state.
// Drawing and Selected are never both true while Feature is nil.
type State struct {
	Drawing  bool             `json:"drawing"`
	Selected bool             `json:"selected"`
	Feature  *geojson.Feature `json:"feature"`
	Origin   Origin           `json:"actionOrigin"`
}

// HasFeature reports whether an AOI has been drawn.
func (s State) HasFeature() bool {
	return s.Feature != nil
}

// Active reports whether the draw button should render as pressed.
func (s State) Active() bool {
	return s.Drawing || s.Selected
}

// Equal compares two states. Features compare by identity: the draw tool
// always hands over a new feature value on change.
func (s State) Equal(o State) bool {
	return s.Drawing == o.Drawing &&
		s.Selected == o.Selected &&
		s.Feature == o.Feature &&
		s.Origin == o.Origin
}

// Action is a named transition with its payload.
type Action struct {
	Type     string
	Feature  *geojson.Feature
	Selected bool
}

// Dispatch sends an action to a controller.
type Dispatch func(Action)

// Reduce returns the state that results from applying a to s.
// Unknown action types leave the state unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case DrawFinish:
		s.Drawing = false
		s.Feature = a.Feature
		s.Origin = OriginMap
	case Selection:
		s.Selected = a.Selected
		s.Origin = OriginNone
		if a.Selected {
			s.Origin = OriginMap
		}
	case Update:
		s.Feature = a.Feature
		s.Origin = OriginMap
	case DrawClick:
		// Only one of drawing/selected can be on: with a feature the button
		// toggles the selection, without one it toggles drawing.
		selected := s.Feature != nil && !s.Selected
		s.Drawing = s.Feature == nil && !s.Drawing
		s.Selected = selected
		s.Origin = OriginNone
		if selected {
			s.Origin = OriginPanel
		}
	case Clear:
		return State{}
	}
	return s
}

// Known reports whether t is a recognised action type.
func Known(t string) bool {
	switch t {
	case DrawFinish, Selection, Update, DrawClick, Clear:
		return true
	}
	return false
}

// SyncFunc is told about every transition.
type SyncFunc func(prev, next State)

// Controller owns an AOI state and notifies its sync hook on change.
type Controller struct {
	mu    sync.Mutex
	state State
	sync  SyncFunc
}

// NewController creates a controller in the default state.
func NewController(sync SyncFunc) *Controller {
	return &Controller{sync: sync}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch reduces a into the current state. The sync hook runs outside the
// lock so it may dispatch again.
func (c *Controller) Dispatch(a Action) {
	c.mu.Lock()
	prev := c.state
	next := Reduce(prev, a)
	c.state = next
	sync := c.sync
	c.mu.Unlock()

	if sync != nil && !prev.Equal(next) {
		sync(prev, next)
	}
}
