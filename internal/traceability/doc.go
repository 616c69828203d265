// Package traceability turns per-chunk extraction output into a linked BRD.
//
// The flow for a new document is:
//
//	Decode     extractor output -> domain.ExtractionResult (one per chunk)
//	Aggregate  results -> global candidate lists + Ledger
//	(store)    candidate lists -> saved lists with identifiers
//	VerifyIdentity  saved lists match what was submitted
//	Link       saved document + Ledger -> RTM entries
//
// Edits re-enter at Reconcile, which re-derives RTM entries for a
// replacement entity set from the previous version of the document.
//
// Chunk-local cross references are carried as plain integers in the
// Ledger: chunk position, the chunk's offsets into each global list, and
// the local index the extractor gave. Nothing here depends on value
// identity, so the package has no state and every function is safe for
// concurrent use on distinct inputs.
package traceability
