// Package chrome builds the page chrome: document head meta tags and the
// branded page header.
package chrome

import (
	"html/template"

	"github.com/joeblew999/plat-explorer/internal/mapview"
)

// MetaTags is the data projected into the document head.
// Description tags are only emitted when Description is set.
type MetaTags struct {
	Title       string
	Description string
	ThemeColor  string
	Extra       template.HTML
}

// PageHeader is the branding block linking to the home route.
type PageHeader struct {
	Brand    string
	AppTitle string
	HomeHref string
}

// Config holds the application identity.
type Config struct {
	AppTitle    string
	Description string
	Theme       mapview.Theme
}

// Page is the chrome of one rendered page.
type Page struct {
	Meta   MetaTags
	Header PageHeader
}

// NewPage returns the chrome for a page titled pageTitle.
func NewPage(cfg Config, pageTitle string, extra template.HTML) Page {
	title := cfg.AppTitle
	if pageTitle != "" && cfg.AppTitle != "" {
		title = pageTitle + " | " + cfg.AppTitle
	} else if pageTitle != "" {
		title = pageTitle
	}
	return Page{
		Meta: MetaTags{
			Title:       title,
			Description: cfg.Description,
			ThemeColor:  cfg.Theme.Primary,
			Extra:       extra,
		},
		Header: PageHeader{
			Brand:    "Earthdata",
			AppTitle: cfg.AppTitle,
			HomeHref: "/",
		},
	}
}
