// Package audit decides which assets are overdue for recalibration.
//
// Evaluate is the only place the overdue rule lives. The recalibration
// workflow calls Select with the same Policy, so the two can never disagree
// about which assets need work.
//
// An asset is overdue when any of these hold:
//   - it has no calibration date (never calibrated)
//   - its stored date is not canonical YYYY-MM-DD (treated as never calibrated)
//   - its date is strictly earlier than Policy.Cutoff(today)
//
// The engine is read-only.
package audit
