// Package local provides the dependency free embedding provider.
//
// HashEmbedder turns text into unigram and bigram features with the
// normalize package, hashes each distinct feature into three buckets of a
// fixed-length vector (the second and third with salted keys) weighted by
// log(1+frequency), and L2-normalises the result. Output is deterministic
// across runs and machines.
package local
