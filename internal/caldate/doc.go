// Package caldate provides a calendar date value and the parser that turns
// heterogeneous calibration date strings into it.
//
// # Canonical Form
//
// The canonical representation is ISO-8601 YYYY-MM-DD. Canonical strings sort
// lexicographically in chronological order, which is what lets the store
// compare dates with plain string comparison. Date.String is the only
// producer of that form.
//
// # Format Priority
//
// Parse tries Formats in order and the first match wins:
//
//  1. iso           YYYY-MM-DD (zero padding optional)
//  2. iso-datetime  YYYY-MM-DD HH:MM:SS
//  3. iso-timestamp YYYY-MM-DDT... (date part kept as written, no zone conversion)
//  4. dmy-slash     DD/MM/YYYY
//  5. mdy-slash     MM/DD/YYYY
//  6. dmy-dash      DD-MM-YYYY
//  7. ymd-slash     YYYY/MM/DD
//
// Day-first wins over month-first for slash dates: "03/04/2023" is 3 April.
// Month-first is only reached when day-first yields an impossible date, as in
// "12/25/2023". Impossible calendar dates ("31/02/2023") match no format.
//
// Input is trimmed and NFKC-folded first, so full-width digits and
// separators from spreadsheet exports parse like their ASCII forms.
package caldate
