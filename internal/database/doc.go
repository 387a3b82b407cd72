// Package database manages the optional PostgreSQL connection used when the
// line stream is read directly from Postgres or the lines table is stored
// there instead of in a CSV file.
package database
