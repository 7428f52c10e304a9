// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): capability providers, corpus storage,
// page extraction and prompt templates.
package driven
