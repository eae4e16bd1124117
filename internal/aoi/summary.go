package aoi

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Summary describes the drawn AOI for the panel.
type Summary struct {
	AreaKm2 float64   `json:"areaKm2"`
	Bounds  orb.Bound `json:"bounds"`
}

// Summarize returns the summary of the state's feature, or false if no
// feature is present.
func Summarize(s State) (Summary, bool) {
	if s.Feature == nil || s.Feature.Geometry == nil {
		return Summary{}, false
	}
	g := s.Feature.Geometry
	area := math.Abs(geo.Area(g)) / 1e6
	return Summary{
		AreaKm2: math.Round(area*100) / 100,
		Bounds:  g.Bound(),
	}, true
}
