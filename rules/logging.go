//go:build ruleguard

// Package gorules contains project lint rules for golangci-lint via ruleguard.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// UnscrubbedURLField detects URL-like log fields that are not passed
// through privacy.ScrubMessage. Provider URLs carry API keys and broker
// URLs may carry credentials.
//
// Old pattern:
//
//	log.Warn("request failed", logger.String("url", requestURL))
//
// New pattern:
//
//	log.Warn("request failed", logger.String("url", privacy.ScrubMessage(requestURL)))
func UnscrubbedURLField(m dsl.Matcher) {
	m.Import("github.com/tphakala/weatherboard/internal/logger")

	m.Match(`logger.String($key, $value)`).
		Where(m["key"].Text.Matches(`^"(url|endpoint|broker|dsn)"$`) &&
			!m["value"].Text.Matches(`^privacy\.ScrubMessage\(`) &&
			!m["value"].Const).
		Report(`wrap $value with privacy.ScrubMessage before logging it as $key`).
		Suggest(`logger.String($key, privacy.ScrubMessage($value))`)
}

// GlobalLoggerWithoutModule detects use of the global logger without a
// module scope, which loses the module attribute on every record.
func GlobalLoggerWithoutModule(m dsl.Matcher) {
	m.Import("github.com/tphakala/weatherboard/internal/logger")

	m.Match(`logger.Global().$method($*_)`).
		Where(m["method"].Text.Matches(`^(Trace|Debug|Info|Warn|Error|Log)$`)).
		Report(`scope the global logger with logger.Global().Module("...") before logging`)
}
