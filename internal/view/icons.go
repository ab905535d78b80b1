package view

import "github.com/tphakala/weatherboard/internal/weather"

// Shape is the glyph drawn for a weather condition.
type Shape string

const (
	ShapeSun            Shape = "sun"
	ShapeCloud          Shape = "cloud"
	ShapeCloudRain      Shape = "cloud-rain"
	ShapeCloudLightning Shape = "cloud-lightning"
	ShapeSnowflake      Shape = "snowflake"
)

// Color is the stroke color of an icon.
type Color string

const (
	ColorYellow500 Color = "#eab308"
	ColorYellow400 Color = "#facc15"
	ColorGray400   Color = "#9ca3af"
	ColorGray500   Color = "#6b7280"
	ColorGray600   Color = "#4b5563"
	ColorGray700   Color = "#374151"
	ColorBlue200   Color = "#bfdbfe"
	ColorBlue300   Color = "#93c5fd"
	ColorBlue400   Color = "#60a5fa"
	ColorBlue500   Color = "#3b82f6"
	ColorBlue600   Color = "#2563eb"
	ColorViolet500 Color = "#8b5cf6"
	ColorViolet600 Color = "#7c3aed"
)

// Icon is a shape drawn in a color.
type Icon struct {
	Shape Shape
	Color Color
}

// DefaultIcon is used for codes without a dedicated icon.
var DefaultIcon = Icon{Shape: ShapeCloud, Color: ColorGray400}

// IconFor maps a condition code to its icon.
func IconFor(code weather.IconCode) Icon {
	switch code {
	case weather.IconClearDay:
		return Icon{ShapeSun, ColorYellow500}
	case weather.IconClearNight:
		return Icon{ShapeSun, ColorYellow400}
	case weather.IconFewCloudsDay:
		return Icon{ShapeCloud, ColorGray400}
	case weather.IconFewCloudsNight:
		return Icon{ShapeCloud, ColorGray500}
	case weather.IconScatteredCloudsDay:
		return Icon{ShapeCloud, ColorGray500}
	case weather.IconScatteredCloudsNight:
		return Icon{ShapeCloud, ColorGray600}
	case weather.IconBrokenCloudsDay:
		return Icon{ShapeCloud, ColorGray600}
	case weather.IconBrokenCloudsNight:
		return Icon{ShapeCloud, ColorGray700}
	case weather.IconShowerRainDay:
		return Icon{ShapeCloudRain, ColorBlue500}
	case weather.IconShowerRainNight:
		return Icon{ShapeCloudRain, ColorBlue600}
	case weather.IconRainDay:
		return Icon{ShapeCloudRain, ColorBlue400}
	case weather.IconRainNight:
		return Icon{ShapeCloudRain, ColorBlue500}
	case weather.IconThunderstormDay:
		return Icon{ShapeCloudLightning, ColorViolet500}
	case weather.IconThunderstormNight:
		return Icon{ShapeCloudLightning, ColorViolet600}
	case weather.IconSnowDay:
		return Icon{ShapeSnowflake, ColorBlue200}
	case weather.IconSnowNight:
		return Icon{ShapeSnowflake, ColorBlue300}
	default:
		return DefaultIcon
	}
}

const cloudPath = `<path d="M17.5 19H9a7 7 0 1 1 6.71-9h1.79a4.5 4.5 0 1 1 0 9Z"/>`

// SVGPaths returns the inner SVG markup of the shape, drawn on a 24x24
// viewBox with stroke set to the icon color.
func (s Shape) SVGPaths() string {
	switch s {
	case ShapeSun:
		return `<path d="M12 2v2M12 20v2M4.93 4.93l1.41 1.41M17.66 17.66l1.41 1.41M2 12h2M20 12h2M6.34 6.34l1.41-1.41M19.07 19.07l1.41-1.41"/><circle cx="12" cy="12" r="5"/>`
	case ShapeCloudRain:
		return cloudPath + `<path d="M16 14v6M8 14v6M12 16v4"/>`
	case ShapeCloudLightning:
		return cloudPath + `<path d="M13 11l-4 6h4l-2 4"/>`
	case ShapeSnowflake:
		return `<path d="M2 12h20M12 2v20M4.93 4.93l14.14 14.14M4.93 19.07L19.07 4.93"/>`
	default:
		return cloudPath
	}
}

// Glyph is a single character stand-in for terminals.
func (s Shape) Glyph() string {
	switch s {
	case ShapeSun:
		return "☀"
	case ShapeCloudRain:
		return "☂"
	case ShapeCloudLightning:
		return "⚡"
	case ShapeSnowflake:
		return "❄"
	default:
		return "☁"
	}
}
