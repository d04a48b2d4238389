// Package templates holds the site's HTML, embedded into the binary.
package templates

import (
	"embed"
	"html/template"
	"time"
)

//go:embed *.html
var files embed.FS

// Page is the template that renders the whole site.
const Page = "page"

// Parse loads every template with the shared helper funcs.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}).ParseFS(files, "*.html")
}
