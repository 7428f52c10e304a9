// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): ingestion, retrieval and question answering.
package driving
