// Package views holds the server-rendered wizard templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"panelOffset": panelOffset,
	}).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// panelOffset returns the horizontal translation, in percent, of a panel
// that belongs to panelStep while the wizard is on step.
func panelOffset(panelStep, step int) int {
	return (panelStep - step) * 100
}
