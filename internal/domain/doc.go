// Package domain models the daily station weather feed and its monthly rollup.
//
// # Data Source
//
// The raw feed is an SMHI PTHBV export holding daily precipitation and mean
// temperature for two stations side by side. It is semicolon-delimited and
// starts with two lines of header/metadata that carry no observations:
//
//	<metadata>
//	<column header>
//	1961-01-26;0.0;-7.2;0.0;-10.3
//
// Columns are date, rain_A, temp_A, rain_B, temp_B. Station A is the first
// column pair (Lund in the original export), station B the second (Uppsala).
//
// # Canonical Dataset
//
// The Normalizer rewrites accepted lines as comma-delimited rows under the
// fixed header
//
//	date,rain_A_mm,temp_A_C,rain_B_mm,temp_B_C
//
// Only the date is validated, and only by shape: DDDD-DD-DD with ASCII
// digits and literal hyphens at positions 4 and 7. "1961-13-32" passes.
// Measurement fields are copied verbatim and may be empty or non-numeric.
//
// # Monthly Summary
//
// The Aggregator filters the canonical dataset to one (year, station) pair
// and rolls it up into twelve months:
//
//	month,total_rain_mm,monthly_tmax_C,monthly_tmin_C,rainy_days
//
// Missing-value rules:
//
//	Rain:        empty → 0.0; negative values contribute 0.0 and are not rainy days.
//	Temperature: empty (or NaN) → missing; missing readings never touch the extremes.
//
// A month without any temperature reading is written with tmax = tmin = 0.
// That zero-fill happens only when the summary is serialized to CSV; in
// memory the month keeps its "no data" state (see [MonthlySummaryRow]).
//
// Numbers are formatted with at most six significant digits in the
// shortest %g form ("5", "-7.2", "1.23457e+06"). See [FormatFloat].
package domain
