// Package web bundles the HTML templates rendered by the blog.
package web

import (
	"embed"
	"html/template"
)

//go:embed template/*.html
var templateFS embed.FS

// Templates parses every page template with the given helper functions.
// Templates are addressed by file name, e.g. "post_list.html".
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "template/*.html")
}
