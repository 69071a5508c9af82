// Package reembed migrates the embedding index to a new embedding model.
//
// Records produced by a model other than the active one are re-embedded from
// their stored source text in batches, with retries and exponential backoff
// for transient provider failures. Progress is written to an io.Writer.
package reembed
