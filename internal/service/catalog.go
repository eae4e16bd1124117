// Package service contains the explorer's runtime services: the layer
// catalog, the per-tab sessions and the view event bus.
package service

import (
	"path/filepath"
	"sync"

	"github.com/joeblew999/plat-explorer/internal/catalog"
)

// CatalogService serves the layer and projection catalog.
type CatalogService struct {
	path    string
	catalog *catalog.Catalog
	mu      sync.RWMutex
}

// NewCatalogService loads <dataDir>/catalog.yaml, falling back to the
// built-in catalog when the file does not exist.
func NewCatalogService(dataDir string) (*CatalogService, error) {
	s := &CatalogService{path: filepath.Join(dataDir, "catalog.yaml")}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the catalog file. On error the previous catalog is kept.
func (s *CatalogService) Reload() error {
	c, err := catalog.Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return nil
}

// Catalog returns the current catalog. Callers must not modify it.
func (s *CatalogService) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Layers returns all layers in catalog order.
func (s *CatalogService) Layers() []catalog.Layer {
	c := s.Catalog()
	return append([]catalog.Layer(nil), c.Layers...)
}

// Layer returns a layer by id.
func (s *CatalogService) Layer(id string) (catalog.Layer, bool) {
	return s.Catalog().Layer(id)
}

// Projections returns all projections in catalog order.
func (s *CatalogService) Projections() []catalog.Projection {
	c := s.Catalog()
	return append([]catalog.Projection(nil), c.Projections...)
}

// Path returns the catalog file path.
func (s *CatalogService) Path() string {
	return s.path
}
