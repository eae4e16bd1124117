package server

import (
	"log"
	"net/http"

	"github.com/joeblew999/plat-explorer/internal/api/explorer"
	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/chrome"
)

type fieldData struct {
	catalog.Field
	Signal string
}

// clientConfig is read by explorer.js from the page.
type clientConfig struct {
	Base  string `json:"base"`
	Token string `json:"token"`
}

type homeData struct {
	Page        chrome.Page
	Signals     string
	Base        string
	Layers      []catalog.Layer
	Projections []catalog.Projection
	Fields      []fieldData
	Config      clientConfig
}

// handleHome renders the home view for a new session.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// On-disk templates are re-read on every page load.
	if s.config.WebDir != "" {
		if err := s.renderer.Reload(s.webFS); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	sess := s.services.Sessions.Create()
	c := sess.Catalog()
	signals, err := explorer.InitialSignals(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	base := "/api/v1/explorer/" + sess.ID
	data := homeData{
		Page: chrome.NewPage(chrome.Config{
			AppTitle:    s.config.AppTitle,
			Description: s.config.Description,
			Theme:       s.config.Theme,
		}, "Welcome", ""),
		Signals:     signals,
		Base:        base,
		Layers:      c.Layers,
		Projections: c.Projections,
		Config:      clientConfig{Base: base, Token: s.config.MapboxToken},
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, fieldData{Field: f, Signal: explorer.FieldSignal(f.ID)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Execute(w, "home", data); err != nil {
		log.Printf("home: %v", err)
	}
}
