// Package reports computes the catalog statistics and renders them as bar charts.
//
// An Engine reads accumulator rows (counts and score sums) from a Source and
// reduces them into a Series: an ordered list of labelled values. Render turns a
// Series into a PNG bar chart using an explicit Style, so no rendering state is
// shared between requests.
//
// Averages are rounded to two decimals, half away from zero. Entities without
// ratings never appear in an average series.
package reports
