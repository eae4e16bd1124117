// Package web embeds the page templates and the browser map runtime.
package web

import "embed"

//go:embed templates static
var FS embed.FS
