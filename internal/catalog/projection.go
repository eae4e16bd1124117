package catalog

// Settings are the numeric projection parameters. Only the parallels matter
// for conic projections; the renderer ignores them otherwise.
type Settings struct {
	Lng     float64 `json:"lng" doc:"Center longitude"`
	Lat     float64 `json:"lat" doc:"Center latitude"`
	SParLat float64 `json:"sParLat" doc:"Southern standard parallel"`
	NParLat float64 `json:"nParLat" doc:"Northern standard parallel"`
}

// DefaultSettings returns the settings a view starts with.
func DefaultSettings() Settings {
	return Settings{Lng: 0, Lat: 30, SParLat: 30, NParLat: 30}
}

// Get returns the value for a field id.
func (s Settings) Get(id string) float64 {
	switch id {
	case FieldLng:
		return s.Lng
	case FieldLat:
		return s.Lat
	case FieldSParLat:
		return s.SParLat
	case FieldNParLat:
		return s.NParLat
	}
	return 0
}

// With returns a copy with the field id set to v. Unknown ids are ignored.
func (s Settings) With(id string, v float64) Settings {
	switch id {
	case FieldLng:
		s.Lng = v
	case FieldLat:
		s.Lat = v
	case FieldSParLat:
		s.SParLat = v
	case FieldNParLat:
		s.NParLat = v
	}
	return s
}

// Clamp limits every value to the range of its field.
func (s Settings) Clamp(fields []Field) Settings {
	for _, f := range fields {
		v := s.Get(f.ID)
		if v < f.Min {
			v = f.Min
		}
		if v > f.Max {
			v = f.Max
		}
		s = s.With(f.ID, v)
	}
	return s
}

// Descriptor is what the renderer receives: a projection name plus center
// and standard parallels.
type Descriptor struct {
	Name      string     `json:"name"`
	Center    [2]float64 `json:"center"`
	Parallels [2]float64 `json:"parallels"`
}

// Describe builds the projection descriptor for name and s.
func Describe(name string, s Settings) Descriptor {
	return Descriptor{
		Name:      name,
		Center:    [2]float64{s.Lng, s.Lat},
		Parallels: [2]float64{s.SParLat, s.NParLat},
	}
}
