// Package ingestion keeps the embedding index in step with approved documents.
//
// The Pipeline type indexes one document on demand, or every approved
// document in a batch. Batch runs embed documents in parallel on a bounded
// worker pool; a document that fails is recorded in the run report and never
// stops the rest of the batch. IndexStale re-indexes only documents whose
// text or embedding model changed since they were last indexed.
package ingestion
