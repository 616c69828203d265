// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// BrdService runs the per-document pipeline: normalise, chunk, extract,
// aggregate, store and link. IngestService fans documents out across
// goroutines; each document's pipeline stays sequential.
package services
