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

package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/kbsearch/core"
)

const (
	documentPrefix         = "doc"
	documentApprovedPrefix = "docapp"
	documentIDSeq          = "docseq"
	embeddingPrefix        = "emb"
	embeddingUpdatedPrefix = "embupd"
	indexRunPrefix         = "idxrun"
)

func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

func makeEmbeddingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}

func prefixOf(name string) []byte {
	return []byte(name + ":")
}

// makeTimeIDKey builds "<prefix>:" followed by the big-endian UnixMicro
// timestamp and ID, so keys sort chronologically.
func makeTimeIDKey(prefix string, timestamp time.Time, id core.ID) []byte {
	prefixBytes := prefixOf(prefix)
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func makeDocumentApprovedKey(approvedAt time.Time, id core.ID) []byte {
	return makeTimeIDKey(documentApprovedPrefix, approvedAt, id)
}

func makeEmbeddingUpdatedKey(updatedAt time.Time, id core.ID) []byte {
	return makeTimeIDKey(embeddingUpdatedPrefix, updatedAt, id)
}

func makeIndexRunKey(startedAt time.Time) []byte {
	prefixBytes := prefixOf(indexRunPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(startedAt.UnixMicro()))
	return buf
}
