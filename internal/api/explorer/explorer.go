// Package explorer contains the Datastar SSE handlers of the home view.
//
// Each rendered page owns a session. Its stream endpoint mounts the map host
// on first connect and carries map commands and panel signals to the
// browser; the other
// endpoints feed panel actions and map events back into the host.
package explorer

import (
	"context"
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/humastar"
	"github.com/joeblew999/plat-explorer/internal/remote"
	"github.com/joeblew999/plat-explorer/internal/service"
	"github.com/joeblew999/plat-explorer/internal/templates"
)

// Prefix is the route prefix of every explorer endpoint.
const Prefix = "/api/v1/explorer/{session}"

// SummarySelector is where the AOI summary fragment is patched.
const SummarySelector = "#aoi-summary"

// Handler serves the explorer endpoints.
type Handler struct {
	humastar.Handler
	sessions *service.SessionService
}

// NewHandler creates an explorer handler.
func NewHandler(sessions *service.SessionService, renderer *templates.Renderer) *Handler {
	return &Handler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
	}
}

func (h *Handler) RegisterRoutes(api huma.API) {
	tags := huma.OperationTags("explorer")
	huma.Get(api, Prefix+"/stream", h.Stream, tags)

	huma.Post(api, Prefix+"/layer", h.SelectLayer, tags)
	huma.Post(api, Prefix+"/projection", h.SetProjection, tags)
	huma.Post(api, Prefix+"/compare", h.ToggleCompare, tags)
	huma.Post(api, Prefix+"/aoi/draw-click", h.DrawClick, tags)
	huma.Post(api, Prefix+"/aoi/clear", h.ClearAOI, tags)

	huma.Post(api, Prefix+"/map/loaded", h.MapLoaded, tags)
	huma.Post(api, Prefix+"/map/view", h.MapView, tags)
	huma.Post(api, Prefix+"/aoi/event", h.AOIEvent, tags)
}

// SessionInput addresses one session.
type SessionInput struct {
	Session string `path:"session" doc:"Session id"`
}

func (h *Handler) session(id string) (*service.Session, error) {
	sess, err := h.sessions.Get(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		return nil, huma.Error404NotFound("session not found")
	}
	return sess, err
}

// Stream attaches to the session's host, mounting it on first connect, and
// streams map commands and panel state until the client disconnects. A
// reconnecting client first receives whatever was queued meanwhile and the
// current panel state.
func (h *Handler) Stream(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	if _, err := h.session(input.Session); err != nil {
		return nil, err
	}
	return h.Handler.Stream(func(sse humastar.SSE) {
		sess, err := h.sessions.Attach(input.Session)
		if err != nil {
			sse.Error(err.Error())
			return
		}
		defer h.sessions.Detach(sess)
		log.Printf("explorer: session %s attached", sess.ID)

		for {
			if err := h.flush(sse, sess); err != nil {
				log.Printf("explorer: session %s: %v", sess.ID, err)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-sess.Outbox().Ready():
			case <-sess.Changed():
			}
		}
	}), nil
}

// flush ships pending map commands, then the panel state.
func (h *Handler) flush(sse humastar.SSE, sess *service.Session) error {
	if cmds := sess.Outbox().Drain(); len(cmds) > 0 {
		js, err := remote.Script(cmds)
		if err != nil {
			return err
		}
		if err := sse.Script(js); err != nil {
			return err
		}
	}

	view, ok := sess.Snapshot()
	if !ok {
		return nil
	}
	if err := sse.Signals(PanelSignals(view)); err != nil {
		return err
	}
	return sse.Patch(h.summary(view.AOI), SummarySelector)
}

func (h *Handler) summary(s aoi.State) string {
	sum, ok := aoi.Summarize(s)
	if !ok {
		return h.Fragment("aoi-summary", (*aoi.Summary)(nil))
	}
	return h.Fragment("aoi-summary", &sum)
}
