// Package answer synthesizes a reply from ranked knowledge-base documents.
//
// The extractive path quotes the best document and lists related titles; it
// needs no provider and is always available. When a generator is configured
// the top documents are packed into a bounded prompt, and any generation
// failure falls back to the extractive answer.
package answer
