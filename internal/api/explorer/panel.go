package explorer

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/humastar"
	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/service"
)

// SignalsInput is a panel action: a session plus the Datastar signals.
type SignalsInput struct {
	SessionInput
	humastar.SignalsInput
}

// act runs fn against the session's host inside an SSE response. Failures
// surface as the error signal; on success the event is published. The
// resulting panel state reaches the page through the session stream.
func (h *Handler) act(sess *service.Session, event string, props map[string]any, fn func(host *mapview.Host) error) *huma.StreamResponse {
	return h.Handler.Stream(func(sse humastar.SSE) {
		var err error
		if !sess.Do(func(host *mapview.Host) { err = fn(host) }) {
			sse.Error("map is not ready")
			return
		}
		if err != nil {
			sse.Error(err.Error())
			return
		}
		h.sessions.Publish(sess.ID, event, props)
		sse.Signals(map[string]any{"error": ""})
	})
}

func (h *Handler) panelInput(input *SignalsInput) (*service.Session, humastar.Signals, error) {
	sess, err := h.session(input.Session)
	if err != nil {
		return nil, nil, err
	}
	sig, err := input.MustParse()
	if err != nil {
		return nil, nil, err
	}
	return sess, sig, nil
}

// SelectLayer shows the layer named by the layer signal.
func (h *Handler) SelectLayer(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	sess, sig, err := h.panelInput(input)
	if err != nil {
		return nil, err
	}
	id := sig.String(SignalLayer)
	if id == "" {
		return nil, huma.Error400BadRequest("layer is required")
	}
	return h.act(sess, "layer-selected", map[string]any{"layer": id}, func(host *mapview.Host) error {
		return host.SelectLayer(id)
	}), nil
}

// SetProjection applies the projection signal and the parameter signals.
func (h *Handler) SetProjection(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	sess, sig, err := h.panelInput(input)
	if err != nil {
		return nil, err
	}
	name := sig.String(SignalProjection)
	props := map[string]any{"projection": name}
	return h.act(sess, "projection-changed", props, func(host *mapview.Host) error {
		view := host.Snapshot()
		if name != "" && name != view.Projection {
			if err := host.SetProjection(name); err != nil {
				return err
			}
		}
		if s := settingsFromSignals(sig, view.Settings); s != view.Settings {
			host.SetProjectionSettings(s)
		}
		return nil
	}), nil
}

// ToggleCompare opens or closes the comparison map per the comparing signal.
func (h *Handler) ToggleCompare(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	sess, sig, err := h.panelInput(input)
	if err != nil {
		return nil, err
	}
	on := sig.Bool(SignalComparing)
	return h.act(sess, "compare-toggled", map[string]any{"comparing": on}, func(host *mapview.Host) error {
		host.SetComparing(on)
		return nil
	}), nil
}

// DrawClick toggles AOI drawing from the panel button.
func (h *Handler) DrawClick(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	return h.dispatchAOI(input, aoi.Action{Type: aoi.DrawClick})
}

// ClearAOI removes the AOI from the panel button.
func (h *Handler) ClearAOI(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	return h.dispatchAOI(input, aoi.Action{Type: aoi.Clear})
}

func (h *Handler) dispatchAOI(input *SignalsInput, a aoi.Action) (*huma.StreamResponse, error) {
	sess, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	return h.act(sess, aoiEventName(a.Type), nil, func(host *mapview.Host) error {
		host.DispatchAOI(a)
		return nil
	}), nil
}

// aoiEventName maps "aoi.draw-click" to "aoi-draw-click".
func aoiEventName(action string) string {
	return strings.Replace(action, ".", "-", 1)
}
