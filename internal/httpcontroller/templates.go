package httpcontroller

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/view"
)

//go:embed views/*.html
var ViewsFs embed.FS

// PageData represents data for rendering the dashboard page.
type PageData struct {
	Title         string
	Page          view.Page
	ForecastTitle string
	RequestID     string
}

// TemplateRenderer is a custom HTML template renderer for Echo framework.
type TemplateRenderer struct {
	templates *template.Template
	logger    logger.Logger
}

// Render renders a template with the given data.
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	// Execute into a buffer so a failing template writes nothing.
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		t.logger.Error("Error executing template", logger.String("template", name), logger.Error(err))
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// setupTemplateRenderer parses the embedded views.
func (s *Server) setupTemplateRenderer() error {
	tmpl, err := template.New("").Funcs(s.GetTemplateFunctions()).ParseFS(ViewsFs, "views/*.html")
	if err != nil {
		return errors.New(err).
			Component("http").
			Category(errors.CategoryFileParsing).
			Build()
	}
	s.Echo.Renderer = &TemplateRenderer{templates: tmpl, logger: s.logger}
	return nil
}
