// Package ai defines the provider abstraction used for embeddings and answer
// generation, and the configuration that selects a provider variant.
//
// Two variants exist: ai/local, a deterministic hashing vectorizer with no
// external calls, and ai/openai, which talks to any OpenAI-compatible API.
// ai/mock holds test doubles.
package ai
