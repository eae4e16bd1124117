package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/mapview"
)

// DrawTarget is the command target of the browser draw tool.
const DrawTarget = "draw"

// ErrUnknownAction is returned for draw events with an unrecognised action.
var ErrUnknownAction = errors.New("unknown aoi action")

// Draw implements mapview.DrawAdapter for the browser draw tool.
type Draw struct {
	out *Outbox

	mu       sync.Mutex
	dispatch aoi.Dispatch
}

// NewDraw creates a draw adapter writing to out.
func NewDraw(out *Outbox) *Draw {
	return &Draw{out: out}
}

func (d *Draw) push(op string, args any) {
	d.out.Push(Command{Target: DrawTarget, Op: op, Args: args})
}

// Setup implements mapview.DrawAdapter.
func (d *Draw) Setup(dispatch aoi.Dispatch, opts mapview.DrawOptions, theme mapview.Theme) {
	d.mu.Lock()
	d.dispatch = dispatch
	d.mu.Unlock()
	d.push("setup", map[string]any{"map": opts.MapID, "theme": theme})
}

// Teardown implements mapview.DrawAdapter. Events arriving afterwards are
// not dispatched until the next Setup.
func (d *Draw) Teardown() {
	d.mu.Lock()
	d.dispatch = nil
	d.mu.Unlock()
	d.push("teardown", nil)
}

// Update implements mapview.DrawAdapter. Transitions that came from the map
// are already reflected there and produce no commands.
func (d *Draw) Update(prev, next aoi.State) {
	if next.Origin == aoi.OriginMap {
		return
	}
	if prev.HasFeature() && !next.HasFeature() {
		d.push("clear", nil)
		return
	}
	if next.Drawing != prev.Drawing {
		if next.Drawing {
			d.push("start", nil)
		} else {
			d.push("stop", nil)
		}
	}
	if next.Selected != prev.Selected {
		if next.Selected {
			d.push("select", nil)
		} else {
			d.push("deselect", nil)
		}
	}
}

// Receive hands a map-originated action to the bound controller. It returns
// false if Setup has not run yet.
func (d *Draw) Receive(a aoi.Action) bool {
	d.mu.Lock()
	dispatch := d.dispatch
	d.mu.Unlock()
	if dispatch == nil {
		return false
	}
	dispatch(a)
	return true
}

// Event is the JSON body the draw tool posts.
type Event struct {
	Action   string          `json:"action"`
	Feature  json.RawMessage `json:"feature,omitempty"`
	Selected bool            `json:"selected,omitempty"`
}

// DecodeEvent turns a draw tool event into an AOI action. Only map
// originated actions are accepted.
func DecodeEvent(ev Event) (aoi.Action, error) {
	a := aoi.Action{Type: ev.Action, Selected: ev.Selected}
	switch ev.Action {
	case aoi.DrawFinish, aoi.Update:
		if len(ev.Feature) == 0 {
			return aoi.Action{}, fmt.Errorf("%s: feature is required", ev.Action)
		}
		f, err := geojson.UnmarshalFeature(ev.Feature)
		if err != nil {
			return aoi.Action{}, fmt.Errorf("%s: decoding feature: %w", ev.Action, err)
		}
		a.Feature = f
	case aoi.Selection:
	default:
		if aoi.Known(ev.Action) {
			return aoi.Action{}, fmt.Errorf("%q is a panel action: %w", ev.Action, ErrUnknownAction)
		}
		return aoi.Action{}, fmt.Errorf("%q: %w", ev.Action, ErrUnknownAction)
	}
	return a, nil
}
