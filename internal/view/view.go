// Package view turns dashboard state into display-ready view models. All
// functions are pure; rendering is done by the web and CLI front ends.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tphakala/weatherboard/internal/dashboard"
	"github.com/tphakala/weatherboard/internal/weather"
)

// Detail is one labelled value tile on a card.
type Detail struct {
	Label string
	Value string
}

// ForecastItem is one day in the forecast strip.
type ForecastItem struct {
	Day  string
	Max  int
	Min  int
	Icon Icon
}

// Range formats the item as "max° / min°".
func (f ForecastItem) Range() string {
	return fmt.Sprintf("%d° / %d°", f.Max, f.Min)
}

// Card is the display form of one tracked city.
type Card struct {
	ID          int64
	Name        string
	Country     string
	Icon        Icon
	Temperature int
	Description string
	FeelsLike   int
	Details     []Detail
	Forecast    []ForecastItem
}

// FeelsLikeText formats the feels-like line shown under the temperature.
func (c Card) FeelsLikeText() string {
	return fmt.Sprintf("Feels like %d°C", c.FeelsLike)
}

// Page is the display form of the whole dashboard.
type Page struct {
	Banner         string
	Locating       bool
	LocatingText   string
	Cards          []Card
	ShowSkeleton   bool
	ShowEmpty      bool
	InputsDisabled bool
	Phase          dashboard.Phase
}

// ForecastTitle heads the forecast strip of every card.
const ForecastTitle = "3-Day Forecast"

// BuildCard converts a record into its card. The provider's description is
// kept as sent; a blank one falls back to the generic text for the icon.
func BuildCard(r weather.Record) Card {
	feels := Round(r.Current.FeelsLike)
	code := r.Current.Weather.Code()
	description := r.Current.Weather.Description
	if strings.TrimSpace(description) == "" {
		description = weather.IconDescription[code]
	}

	card := Card{
		ID:          r.ID,
		Name:        r.Name,
		Country:     r.Country,
		Icon:        IconFor(code),
		Temperature: Round(r.Current.Temp),
		Description: description,
		FeelsLike:   feels,
		Details: []Detail{
			{Label: "Humidity", Value: fmt.Sprintf("%d%%", r.Current.Humidity)},
			{Label: "Wind", Value: formatNumber(r.Current.WindSpeed) + " m/s"},
			{Label: "Visibility", Value: formatNumber(float64(r.Current.Visibility)/1000) + " km"},
			{Label: "Feels like", Value: fmt.Sprintf("%d°C", feels)},
		},
		Forecast: make([]ForecastItem, 0, len(r.Forecast)),
	}
	for _, day := range r.Forecast {
		card.Forecast = append(card.Forecast, ForecastItem{
			Day:  day.Date,
			Max:  Round(day.TempMax),
			Min:  Round(day.TempMin),
			Icon: IconFor(day.Weather.Code()),
		})
	}
	return card
}

// BuildPage converts a state snapshot into the page view model.
func BuildPage(s dashboard.State) Page {
	page := Page{
		Banner:         s.Banner,
		Locating:       s.Locating,
		ShowSkeleton:   s.Loading,
		ShowEmpty:      s.ShowEmpty(),
		InputsDisabled: s.Loading,
		Phase:          s.Phase,
		Cards:          make([]Card, 0, len(s.Records)),
	}
	if s.Locating {
		page.LocatingText = dashboard.MsgLocating
	}
	for i := range s.Records {
		page.Cards = append(page.Cards, BuildCard(s.Records[i]))
	}
	return page
}

// Round rounds half up: 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// formatNumber prints v with the shortest exact representation.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
