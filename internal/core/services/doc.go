// Package services implements the application core: the ingestion
// pipeline, balanced retrieval and grounded answer synthesis. Services
// depend only on domain types and ports; adapters are injected at
// construction.
package services
