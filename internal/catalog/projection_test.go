package catalog

import "testing"

func TestDescribe(t *testing.T) {
	s := Settings{Lng: 10, Lat: 20, SParLat: 25, NParLat: 45}
	d := Describe("albers", s)

	if d.Name != "albers" {
		t.Fatalf("name=%q, want albers", d.Name)
	}
	if d.Center != [2]float64{10, 20} {
		t.Fatalf("center=%v, want [10 20]", d.Center)
	}
	if d.Parallels != [2]float64{25, 45} {
		t.Fatalf("parallels=%v, want [25 45]", d.Parallels)
	}
}

func TestClamp(t *testing.T) {
	s := Settings{Lng: 200, Lat: -95, SParLat: -90, NParLat: 45}.Clamp(DefaultFields)
	want := Settings{Lng: 180, Lat: -90, SParLat: -89, NParLat: 45}
	if s != want {
		t.Fatalf("clamped=%+v, want %+v", s, want)
	}
}

func TestWithIgnoresUnknownField(t *testing.T) {
	s := DefaultSettings()
	if got := s.With("zoom", 4); got != s {
		t.Fatalf("settings=%+v, want unchanged %+v", got, s)
	}
	if got := s.With(FieldLat, 12).Get(FieldLat); got != 12 {
		t.Fatalf("lat=%v, want 12", got)
	}
}
