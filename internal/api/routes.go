// Package api defines the Huma REST routes of the explorer.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/maptile"

	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/humastar"
	"github.com/joeblew999/plat-explorer/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Catalog  *service.CatalogService
	Sessions *service.SessionService
}

type IDInput struct {
	ID string `path:"id" doc:"Layer ID" example:"co2"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// LayerBody is a catalog layer with a resolved sample tile.
type LayerBody struct {
	catalog.Layer
	SampleTile string `json:"sample_tile" doc:"URL of the zoom 0 tile"`
	Default    bool   `json:"default" doc:"Whether the layer is visible when a view opens"`
}

func (b LayerBody) Actions() []humastar.Action {
	return []humastar.Action{
		{Rel: "self", Href: "/api/v1/layers/" + b.ID, Method: "GET", Title: b.Label},
		{Rel: "preview", Href: b.SampleTile, Method: "GET", Title: "Sample tile"},
	}
}

type ProjectionBody struct {
	catalog.Projection
	Default bool            `json:"default" doc:"Whether views open with this projection"`
	Fields  []catalog.Field `json:"fields,omitempty" doc:"Adjustable parameters, conic projections only"`
}

type ProjectionsBody struct {
	Projections []ProjectionBody `json:"projections"`
	Defaults    catalog.Settings `json:"defaults" doc:"Parameters a view starts with"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterCatalog registers layer and projection routes.
func (h *APIHandler) RegisterCatalog(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("catalog"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("catalog"))
	huma.Get(api, "/api/v1/projections", h.GetProjections, huma.OperationTags("catalog"))
}

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) catalog() *catalog.Catalog {
	if h.svc == nil || h.svc.Catalog == nil {
		return catalog.Default()
	}
	return h.svc.Catalog.Catalog()
}

func layerBody(c *catalog.Catalog, l catalog.Layer) LayerBody {
	return LayerBody{
		Layer:      l,
		SampleTile: l.TileURL(maptile.New(0, 0, 0)),
		Default:    l.ID == c.DefaultLayer,
	}
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*struct{ Body []LayerBody }, error) {
	c := h.catalog()
	layers := make([]LayerBody, 0, len(c.Layers))
	for _, l := range c.Layers {
		layers = append(layers, layerBody(c, l))
	}
	return &struct{ Body []LayerBody }{Body: layers}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*struct{ Body LayerBody }, error) {
	c := h.catalog()
	l, ok := c.Layer(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}
	return &struct{ Body LayerBody }{Body: layerBody(c, l)}, nil
}

func (h *APIHandler) GetProjections(ctx context.Context, input *struct{}) (*struct{ Body ProjectionsBody }, error) {
	c := h.catalog()
	body := ProjectionsBody{Defaults: catalog.DefaultSettings()}
	for _, p := range c.Projections {
		pb := ProjectionBody{Projection: p, Default: p.ID == c.DefaultProjection}
		if p.Conic {
			pb.Fields = c.Fields
		}
		body.Projections = append(body.Projections, pb)
	}
	return &struct{ Body ProjectionsBody }{Body: body}, nil
}
