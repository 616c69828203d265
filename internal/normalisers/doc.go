// Package normalisers provides implementations of the Normaliser interface
// for the upload formats brdify accepts. Each normaliser knows how to
// extract plain text from a specific MIME type.
//
// Normalisers are registered with a Registry at startup; the registry picks
// the highest priority normaliser for an upload's MIME type.
package normalisers
