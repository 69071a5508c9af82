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

package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinWordLength is the shortest word, in runes, kept as a feature.
const MinWordLength = 3

var (
	abbreviationPattern = buildAbbreviationPattern()
	nonAlphanumeric     = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

func buildAbbreviationPattern() *regexp.Regexp {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest first so "perms" wins over "perm".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Normalize lowercases text, expands known abbreviations, replaces every run of
// non-alphanumeric characters with a single space and trims the result.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = abbreviationPattern.ReplaceAllStringFunc(text, func(word string) string {
		return abbreviations[word]
	})
	text = nonAlphanumeric.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize returns the normalized words of text, dropping short words and stopwords.
func Tokenize(text string) []string {
	words := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < MinWordLength || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// TokenizeWithBigrams returns the unigrams of text followed by a bigram
// "a_b" for every adjacent pair of unigrams.
// Empty or all-stopword text yields an empty slice.
func TokenizeWithBigrams(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) < 2 {
		return tokens
	}
	features := make([]string, 0, 2*len(tokens)-1)
	features = append(features, tokens...)
	for i := 0; i < len(tokens)-1; i++ {
		features = append(features, tokens[i]+"_"+tokens[i+1])
	}
	return features
}

// ExtractKeywords returns the distinct substantive tokens of text in order of
// first appearance. Generic support vocabulary such as "error" or "fix" is
// dropped so that ranking keys on the terms that distinguish documents.
func ExtractKeywords(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if nuisanceWords[token] {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}
