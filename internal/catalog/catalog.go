package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLayer      = errors.New("unknown layer")
	ErrUnknownProjection = errors.New("unknown projection")
)

// Field ids of the projection settings.
const (
	FieldLng     = "lng"
	FieldLat     = "lat"
	FieldSParLat = "sParLat"
	FieldNParLat = "nParLat"
)

// DefaultFields are the projection parameters exposed for conic projections.
var DefaultFields = []Field{
	{ID: FieldLng, Label: "Center Longitude", Min: -180, Max: 180},
	{ID: FieldLat, Label: "Center Latitude", Min: -90, Max: 90},
	{ID: FieldSParLat, Label: "Southern Parallel Lat", Min: -89, Max: 90},
	{ID: FieldNParLat, Label: "Northern Parallel Lat", Min: -89, Max: 90},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Layers: []Layer{
			{
				ID:      "no2",
				Label:   "Nitrogen Dioxide",
				URL:     "https://8ib71h0627.execute-api.us-east-1.amazonaws.com/v1/{z}/{x}/{y}@1x?url=s3://covid-eo-data/OMNO2d_HRM/OMI_trno2_0.10x0.10_202110_Col3_V4.nc.tif&resampling_method=bilinear&bidx=1&rescale=0%2C1.5e16&color_map=custom_no2&color_formula=gamma r 0.8",
				Opacity: 0.9,
			},
			{
				ID:      "co2",
				Label:   "Carbon Dioxide",
				URL:     "https://8ib71h0627.execute-api.us-east-1.amazonaws.com/v1/{z}/{x}/{y}@1x?url=s3://covid-eo-data/xco2-mean/xco2_16day_mean.2021_06_15.tif&resampling_method=bilinear&bidx=1&rescale=0.000408%2C0.000419&color_map=rdylbu_r&color_formula=gamma r 1.05",
				Opacity: 0.9,
			},
		},
		Projections: []Projection{
			{ID: "globe", Label: "Globe"},
			{ID: "albers", Label: "Albers", Conic: true},
			{ID: "equalEarth", Label: "Equal Earth"},
			{ID: "equirectangular", Label: "Equirectangular"},
			{ID: "lambertConformalConic", Label: "Lambert Conformal Conic", Conic: true},
			{ID: "mercator", Label: "Mercator"},
			{ID: "naturalEarth", Label: "Natural Earth"},
			{ID: "winkelTripel", Label: "Winkel Tripel"},
		},
		Fields:            append([]Field(nil), DefaultFields...),
		DefaultLayer:      "co2",
		DefaultProjection: "mercator",
	}
}

// Load reads a YAML catalog from path. A missing file yields the built-in
// catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.Fields) == 0 {
		c.Fields = append([]Field(nil), DefaultFields...)
	}
	for i := range c.Layers {
		if c.Layers[i].Opacity == 0 {
			c.Layers[i].Opacity = 0.9
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks ids, tile templates and defaults.
func (c *Catalog) Validate() error {
	if len(c.Layers) == 0 {
		return errors.New("catalog has no layers")
	}
	if len(c.Projections) == 0 {
		return errors.New("catalog has no projections")
	}

	seen := make(map[string]bool, len(c.Layers))
	for _, l := range c.Layers {
		if l.ID == "" {
			return errors.New("layer id is required")
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate layer %q", l.ID)
		}
		seen[l.ID] = true
		for _, p := range []string{"{z}", "{x}", "{y}"} {
			if !strings.Contains(l.URL, p) {
				return fmt.Errorf("layer %q: url template is missing %s", l.ID, p)
			}
		}
	}

	seen = make(map[string]bool, len(c.Projections))
	for _, p := range c.Projections {
		if p.ID == "" {
			return errors.New("projection id is required")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate projection %q", p.ID)
		}
		seen[p.ID] = true
	}

	if _, ok := c.Layer(c.DefaultLayer); !ok {
		return fmt.Errorf("default layer %q: %w", c.DefaultLayer, ErrUnknownLayer)
	}
	if _, ok := c.Projection(c.DefaultProjection); !ok {
		return fmt.Errorf("default projection %q: %w", c.DefaultProjection, ErrUnknownProjection)
	}
	return nil
}
