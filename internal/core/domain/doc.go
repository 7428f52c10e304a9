// Package domain contains the core business types for askdocs:
// corpora, documents, chunks, retrieval candidates and the settings
// that configure the capability providers.
//
// The domain layer has no dependencies on adapters or infrastructure.
package domain
