package server

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-explorer/internal/api"
	"github.com/joeblew999/plat-explorer/internal/api/explorer"
	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/service"
	"github.com/joeblew999/plat-explorer/internal/telemetry"
	"github.com/joeblew999/plat-explorer/internal/templates"
	"github.com/joeblew999/plat-explorer/web"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string // holds catalog.yaml
	WebDir  string // overrides the embedded templates and static files when set

	AppTitle    string
	Description string
	MapboxToken string
	MapStyle    string
	Theme       mapview.Theme

	SessionTTL time.Duration

	PostHogKey  string
	PostHogHost string
}

// Server is the explorer HTTP server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	humaAPI   huma.API
	services  *api.Services
	bus       *service.EventBus
	renderer  *templates.Renderer
	webFS     fs.FS
	telemetry *telemetry.Forwarder
	done      chan struct{}
}

// New creates a new explorer server.
func New(cfg Config) (*Server, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 10 * time.Minute
	}
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-explorer API", "1.0.0")
	humaConfig.Info.Description = "Geospatial data explorer: raster layers, projections, comparison and areas of interest."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	catalogs, err := service.NewCatalogService(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	log.Printf("catalog: %d layers, %d projections from %s",
		len(catalogs.Layers()), len(catalogs.Projections()), catalogs.Path())

	bus := service.NewEventBus()
	sessions := service.NewSessionService(mapview.Config{
		Style: cfg.MapStyle,
		Theme: cfg.Theme,
	}, bus)
	sessions.UseCatalog(catalogs)

	var webFS fs.FS = web.FS
	if cfg.WebDir != "" {
		webFS = os.DirFS(cfg.WebDir)
		log.Printf("templates: using %s", cfg.WebDir)
	}
	renderer, err := templates.New(webFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	client, err := telemetry.NewClient(cfg.PostHogKey, cfg.PostHogHost)
	if err != nil {
		log.Printf("telemetry: disabled: %v", err)
		client = nil
	}

	s := &Server{
		config:    cfg,
		mux:       mux,
		humaAPI:   humaAPI,
		services:  &api.Services{Catalog: catalogs, Sessions: sessions},
		bus:       bus,
		renderer:  renderer,
		webFS:     webFS,
		telemetry: telemetry.Forward(bus, client),
		done:      make(chan struct{}),
	}

	s.routes()
	go s.reap()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the API description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Catalog returns the effective layer catalog.
func (s *Server) Catalog() *catalog.Catalog {
	return s.services.Catalog.Catalog()
}

// Close stops the session reaper and flushes telemetry.
func (s *Server) Close() error {
	close(s.done)
	return s.telemetry.Close()
}

func (s *Server) routes() {
	api.RegisterRoutes(s.humaAPI, s.services)
	explorer.NewHandler(s.services.Sessions, s.renderer).RegisterRoutes(s.humaAPI)

	static, err := fs.Sub(s.webFS, "static")
	if err == nil {
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	s.mux.HandleFunc("/", s.handleHome)
}

func (s *Server) reap() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.services.Sessions.Reap(s.config.SessionTTL)
		}
	}
}
