package chrome

import (
	"strings"
	"testing"

	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/templates"
	"github.com/joeblew999/plat-explorer/web"
)

func TestNewPageTitle(t *testing.T) {
	tests := []struct {
		app, page, want string
	}{
		{"Dashboard", "Welcome", "Welcome | Dashboard"},
		{"", "Welcome", "Welcome"},
		{"Dashboard", "", "Dashboard"},
	}
	for _, tt := range tests {
		p := NewPage(Config{AppTitle: tt.app}, tt.page, "")
		if p.Meta.Title != tt.want {
			t.Fatalf("title=%q, want %q", p.Meta.Title, tt.want)
		}
	}
}

func TestRenderChrome(t *testing.T) {
	r, err := templates.New(web.FS)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{
		AppTitle: "Dashboard",
		Theme:    mapview.Theme{Primary: "#2276ac"},
	}

	meta, err := r.Render("meta-tags", NewPage(cfg, "Welcome", `<link rel="icon" href="/static/favicon.ico">`).Meta)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<title>Welcome | Dashboard</title>", `content="#2276ac"`, `rel="icon"`} {
		if !strings.Contains(meta, want) {
			t.Fatalf("meta missing %q:\n%s", want, meta)
		}
	}
	if strings.Contains(meta, "description") {
		t.Fatalf("description emitted without one:\n%s", meta)
	}

	cfg.Description = "Earth observation"
	meta, _ = r.Render("meta-tags", NewPage(cfg, "Welcome", "").Meta)
	if strings.Count(meta, `content="Earth observation"`) != 2 {
		t.Fatalf("want description and twitter:description:\n%s", meta)
	}

	header, err := r.Render("page-header", NewPage(cfg, "", "").Header)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(header, `href="/"`) || !strings.Contains(header, "Earthdata") {
		t.Fatalf("header=%s", header)
	}
}
