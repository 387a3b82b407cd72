// Package model defines shared data types used across the market line pipeline.
//
// Conventions:
//   - Missing data is a nil pointer on Quote and Game, and Null() in a table cell.
//     Nothing downstream substitutes zero for a missing line.
//   - Timestamps: time.Time, always timezone aware. Tables are normalized to a
//     single location before any join.
//   - IDs: nflverse game_id strings (e.g. "2024_01_BAL_KC").
package model
