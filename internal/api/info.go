package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-explorer/internal/service"
)

type InfoHandler struct {
	catalog  *service.CatalogService
	sessions *service.SessionService
}

func NewInfoHandler(catalog *service.CatalogService, sessions *service.SessionService) *InfoHandler {
	return &InfoHandler{catalog: catalog, sessions: sessions}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Catalog  string   `json:"catalog" doc:"Catalog file path"`
	Sessions int      `json:"sessions" doc:"Open explorer sessions"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	body := InfoBody{
		Name:     "plat-explorer",
		Version:  "0.1.0",
		Features: []string{"layers", "projections", "compare", "aoi"},
	}
	if h.catalog != nil {
		body.Catalog = h.catalog.Path()
	}
	if h.sessions != nil {
		body.Sessions = h.sessions.Len()
	}
	return &struct{ Body InfoBody }{Body: body}, nil
}
