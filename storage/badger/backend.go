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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/kbsearch/storage"
)

// Sequence IDs are leased from badger in blocks of this size.
const sequenceBandwidth = 100

// Backend owns the badger database shared by all repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes badger's printf-style log calls to slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = slogAdapter{}

func (a slogAdapter) log(level slog.Level, format string, args ...any) {
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Errorf(format string, args ...any)   { a.log(slog.LevelError, format, args...) }
func (a slogAdapter) Warningf(format string, args ...any) { a.log(slog.LevelWarn, format, args...) }

// Badger reports every compaction and table open at info.
func (a slogAdapter) Infof(format string, args ...any)  { a.log(slog.LevelDebug, format, args...) }
func (a slogAdapter) Debugf(format string, args ...any) { a.log(slog.LevelDebug, format, args...) }

// OpenBackend opens (creating if needed) the database directory at path,
// or an in-memory database when inMemory is set.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}

	logger := slog.Default().With("component", "badger")
	opts = opts.WithLogger(slogAdapter{logger: logger}).WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening index store: %w", err)
	}
	logger.Debug("index store opened", "path", path, "in_memory", inMemory)
	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn in a new transaction that is discarded afterwards.
// Write transactions must call tx.Commit themselves.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns the named ID sequence. Callers release it on close.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), sequenceBandwidth)
}

// nextID draws the next ID from seq. Zero is reserved for "unassigned".
func nextID(seq *badger.Sequence) (uint64, error) {
	for {
		id, err := seq.Next()
		if err != nil || id != 0 {
			return id, err
		}
	}
}

// forEachPrefix calls fn with the value of every key starting with prefix,
// in key order. Reverse iterates from the last key backwards.
func forEachPrefix(tx *badger.Txn, prefix []byte, reverse bool, fn func(key, val []byte) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = reverse
	iter := tx.NewIterator(opts)
	defer iter.Close()

	start := prefix
	if reverse {
		start = append(append([]byte{}, prefix...), bytes.Repeat([]byte{0xFF}, 32)...)
	}
	for iter.Seek(start); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		var more bool
		err := item.Value(func(val []byte) error {
			var err error
			more, err = fn(item.Key(), val)
			return err
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}
