//go:build ruleguard

package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// EnhancedErrorWithoutComponent detects enhanced errors built without a
// component. Telemetry groups errors by component and category.
//
// Old pattern:
//
//	errors.New(err).Category(errors.CategoryNetwork).Build()
//
// New pattern:
//
//	errors.New(err).Component("weather").Category(errors.CategoryNetwork).Build()
func EnhancedErrorWithoutComponent(m dsl.Matcher) {
	m.Import("github.com/tphakala/weatherboard/internal/errors")

	m.Match(
		`errors.New($err).Build()`,
		`errors.New($err).Category($c).Build()`,
		`errors.New($err).Category($c).Context($k, $v).Build()`,
	).
		Report(`set Component on enhanced errors before Build`)
}

// ErrorCategoryCompare detects string comparison of error categories.
//
// Old pattern:
//
//	if ee.Category == "not-found" { ... }
//
// New pattern:
//
//	if errors.IsCategory(err, errors.CategoryNotFound) { ... }
func ErrorCategoryCompare(m dsl.Matcher) {
	m.Import("github.com/tphakala/weatherboard/internal/errors")

	m.Match(`$ee.Category == $s`, `$ee.Category != $s`).
		Where(m["ee"].Type.Is("*errors.EnhancedError") && m["s"].Const && m["s"].Type.Is("string")).
		Report(`compare against errors.Category constants or use errors.IsCategory`)
}
