// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search ranks indexed knowledge-base articles against a query and
// turns the ranking into an answer.
//
// Ranking blends two signals into a hybrid score:
//   - cosine similarity between the query vector and each stored vector
//   - keyword overlap between the query and each article's title and content
//
// The Searcher applies a per-model similarity floor to the best result, so a
// weak match is reported as not found instead of as a low-confidence answer.
package search
