package view

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes a plain text rendering of the page for terminals.
func RenderText(w io.Writer, p Page) error {
	var b strings.Builder

	if p.Banner != "" {
		fmt.Fprintf(&b, "! %s\n\n", p.Banner)
	}
	if p.Locating {
		fmt.Fprintf(&b, "%s\n\n", p.LocatingText)
	}
	if p.ShowSkeleton {
		b.WriteString("Loading...\n\n")
	}
	if p.ShowEmpty {
		b.WriteString("No cities added yet. Search for a city to see its weather.\n")
	}

	for i, c := range p.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCard(&b, c)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, c Card) {
	fmt.Fprintf(b, "%s, %s  [id %d]\n", c.Name, c.Country, c.ID)
	fmt.Fprintf(b, "  %s %d°C  %s\n", c.Icon.Shape.Glyph(), c.Temperature, c.Description)
	fmt.Fprintf(b, "  %s\n", c.FeelsLikeText())

	details := make([]string, 0, len(c.Details))
	for _, d := range c.Details {
		details = append(details, d.Label+": "+d.Value)
	}
	fmt.Fprintf(b, "  %s\n", strings.Join(details, " | "))

	if len(c.Forecast) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s\n", ForecastTitle)
	for _, f := range c.Forecast {
		fmt.Fprintf(b, "    %-4s %s %s\n", f.Day, f.Icon.Shape.Glyph(), f.Range())
	}
}
