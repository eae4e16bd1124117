// Package catalog holds the static layer and projection catalog of the explorer.
package catalog

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// Layer describes a raster data layer backed by a templated tile endpoint.
// Huma reads the tags for OpenAPI + validation.
type Layer struct {
	ID      string  `json:"id" yaml:"id" required:"true" doc:"Unique layer identifier" example:"co2"`
	Label   string  `json:"label" yaml:"label" required:"true" doc:"Display name" example:"Carbon Dioxide"`
	URL     string  `json:"url" yaml:"url" required:"true" doc:"Tile URL template with {z}/{x}/{y} placeholders"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" minimum:"0" maximum:"1" default:"0.9" doc:"Raster opacity (0-1)"`
}

// TileURL returns the concrete tile URL for t.
func (l Layer) TileURL(t maptile.Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(int(t.Z)),
		"{x}", strconv.FormatUint(uint64(t.X), 10),
		"{y}", strconv.FormatUint(uint64(t.Y), 10),
	)
	return r.Replace(l.URL)
}

// Projection is a selectable map projection.
type Projection struct {
	ID    string `json:"id" yaml:"id" required:"true" doc:"Projection name understood by the renderer" example:"albers"`
	Label string `json:"label" yaml:"label" required:"true" doc:"Display name" example:"Albers"`
	Conic bool   `json:"conic,omitempty" yaml:"conic,omitempty" doc:"Whether the projection takes standard parallels"`
}

// Field is a numeric projection parameter shown as a range input.
type Field struct {
	ID    string  `json:"id" yaml:"id" doc:"Settings key" example:"lng"`
	Label string  `json:"label" yaml:"label" doc:"Display name" example:"Center Longitude"`
	Min   float64 `json:"min" yaml:"min" doc:"Lower bound"`
	Max   float64 `json:"max" yaml:"max" doc:"Upper bound"`
}

// Catalog is the immutable set of layers and projections offered to a session.
type Catalog struct {
	Layers            []Layer      `json:"layers" yaml:"layers"`
	Projections       []Projection `json:"projections" yaml:"projections"`
	Fields            []Field      `json:"fields" yaml:"fields,omitempty"`
	DefaultLayer      string       `json:"defaultLayer" yaml:"defaultLayer"`
	DefaultProjection string       `json:"defaultProjection" yaml:"defaultProjection"`
}

// Layer returns the layer with the given id.
func (c *Catalog) Layer(id string) (Layer, bool) {
	for _, l := range c.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Projection returns the projection with the given id.
func (c *Catalog) Projection(id string) (Projection, bool) {
	for _, p := range c.Projections {
		if p.ID == id {
			return p, true
		}
	}
	return Projection{}, false
}

// Field returns the projection field with the given id.
func (c *Catalog) Field(id string) (Field, bool) {
	for _, f := range c.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}
