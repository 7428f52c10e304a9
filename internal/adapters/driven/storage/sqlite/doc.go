// Package sqlite provides the persistent per-corpus vector index.
// Each corpus owns its own directory containing a SQLite database of
// chunk records with embedded vectors, plus a best-effort manifest.
package sqlite
