// Package lines turns a raw bookmaker quote stream into per-game open and last
// line snapshots and reconciles them with the persisted lines table.
//
// Pipeline:
//
//	quotes -> Window.Classify -> {open, last} cohorts
//	       -> Build (Resolve per FieldGroup per game) -> fresh table
//	       -> Merge(fresh, persisted) -> table to persist
//
// Everything here is pure and single threaded. Fetching quotes, loading the
// schedule, and reading or writing the persisted table live in other packages;
// this package only receives and returns values.
package lines
