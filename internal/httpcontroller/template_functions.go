package httpcontroller

import (
	"html/template"
	"strconv"

	"github.com/tphakala/weatherboard/internal/view"
)

// GetTemplateFunctions returns a map of functions that can be used in templates
func (s *Server) GetTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"weatherIcon": weatherIcon,
	}
}

// weatherIcon renders an inline SVG for icon at the given pixel size.
func weatherIcon(icon view.Icon, size int) template.HTML {
	// Shape paths are fixed markup and the color is a closed enum.
	return template.HTML(`<svg xmlns="http://www.w3.org/2000/svg" width="` + strconv.Itoa(size) + `" height="` + strconv.Itoa(size) +
		`" viewBox="0 0 24 24" fill="none" stroke="` + string(icon.Color) +
		`" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="icon icon-` + string(icon.Shape) + `">` +
		icon.Shape.SVGPaths() + `</svg>`)
}
