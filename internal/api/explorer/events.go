package explorer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/remote"
)

// MapLoadedInput reports that a map finished loading its style.
type MapLoadedInput struct {
	SessionInput
	Body struct {
		Map string `json:"map" doc:"Map id" example:"primary"`
	}
}

// MapLoaded registers the catalog layers once the primary map has loaded.
func (h *Handler) MapLoaded(ctx context.Context, input *MapLoadedInput) (*struct{}, error) {
	sess, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	if input.Body.Map != mapview.PrimaryID {
		return &struct{}{}, nil
	}
	if !sess.Do(func(host *mapview.Host) { host.Loaded() }) {
		return nil, huma.Error409Conflict("map is not mounted")
	}
	return &struct{}{}, nil
}

// MapViewInput reports the view of a map after it moved.
type MapViewInput struct {
	SessionInput
	Body struct {
		Map  string  `json:"map" doc:"Map id" example:"primary"`
		Lng  float64 `json:"lng"`
		Lat  float64 `json:"lat" minimum:"-90" maximum:"90"`
		Zoom float64 `json:"zoom" minimum:"0" maximum:"24"`
	}
}

// MapView records where a map is looking, so the comparison map can open
// at the same place.
func (h *Handler) MapView(ctx context.Context, input *MapViewInput) (*struct{}, error) {
	sess, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	b := input.Body
	if !sess.ReportView(b.Map, orb.Point{b.Lng, b.Lat}, b.Zoom) {
		return nil, huma.Error404NotFound("map not found")
	}
	return &struct{}{}, nil
}

// AOIEventInput carries a draw tool event as posted by the browser.
type AOIEventInput struct {
	SessionInput
	RawBody []byte
}

// AOIEvent feeds a map-originated AOI action to the session.
func (h *Handler) AOIEvent(ctx context.Context, input *AOIEventInput) (*struct{}, error) {
	sess, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	var ev remote.Event
	if err := json.Unmarshal(input.RawBody, &ev); err != nil {
		return nil, huma.Error400BadRequest("invalid draw event: " + err.Error())
	}
	a, err := remote.DecodeEvent(ev)
	if err != nil {
		if errors.Is(err, remote.ErrUnknownAction) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if !sess.ReceiveAOI(a) {
		return nil, huma.Error409Conflict("draw tool is not bound")
	}
	h.sessions.Publish(sess.ID, aoiEventName(a.Type), nil)
	return &struct{}{}, nil
}
