// Package database stores the history of search jobs in SQLite
// (modernc.org/sqlite, no cgo).
//
// Each job is kept as one row holding its JSON report plus the columns
// needed for listing, and one row per worker with that worker's stats.
package database
