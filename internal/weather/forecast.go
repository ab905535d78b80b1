package weather

import "time"

// dayLabelLayout formats a short English weekday, e.g. "Mon"
const dayLabelLayout = "Mon"

// DayLabel returns the short weekday label of t in loc.
func DayLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLabelLayout)
}

// ReduceForecast keeps the first entry for each distinct day label, in the
// order the labels first appear, and stops after maxDays labels. Entries
// are not aggregated: the kept entry's min and max are used as is.
func ReduceForecast(entries []ForecastEntry, loc *time.Location, maxDays int) []DayForecast {
	if maxDays <= 0 {
		return []DayForecast{}
	}

	days := make([]DayForecast, 0, maxDays)
	seen := make(map[string]struct{}, maxDays)
	for _, entry := range entries {
		label := DayLabel(entry.Time, loc)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		days = append(days, DayForecast{
			Date:    label,
			TempMax: entry.TempMax,
			TempMin: entry.TempMin,
			Weather: entry.Summary,
		})
		if len(days) == maxDays {
			break
		}
	}
	return days
}
