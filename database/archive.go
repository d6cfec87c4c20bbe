// Copyright 2026 Blink Labs Software
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

package database

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/voteaudit/fragment"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	archiveKeyPrefix = "fl"
	archiveKeyLen    = len(archiveKeyPrefix) + 8
)

// Archive stores fragment log entries in badger, keyed by import sequence, so
// that later runs replay them in the order they were imported
type Archive struct {
	db      *badger.DB
	logger  *slog.Logger
	dataDir string
}

func NewArchive(opts ...ArchiveOptionFunc) (*Archive, error) {
	a := &Archive{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		a.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var badgerOpts badger.Options
	if a.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithInMemory(true)
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(a.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(filepath.Join(a.dataDir, "fragments")).
			WithCompression(options.Snappy)
	}
	badgerOpts = badgerOpts.
		WithLogger(newBadgerLogger(a.logger)).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	a.db = db
	return a, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func archiveKey(seq uint64) []byte {
	key := make([]byte, archiveKeyLen)
	copy(key, archiveKeyPrefix)
	binary.BigEndian.PutUint64(key[len(archiveKeyPrefix):], seq)
	return key
}

// nextSequence returns the sequence number following the last archived entry
func (a *Archive) nextSequence() (uint64, error) {
	var ret uint64
	err := a.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Reverse = true
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		prefix := []byte(archiveKeyPrefix)
		it.Seek(archiveKey(^uint64(0)))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		key := it.Item().Key()
		if len(key) != archiveKeyLen {
			return fmt.Errorf("unexpected archive key length %d", len(key))
		}
		ret = binary.BigEndian.Uint64(key[len(archiveKeyPrefix):]) + 1
		return nil
	})
	return ret, err
}

// Append adds entries after any previously archived entries
func (a *Archive) Append(entries []fragment.LogEntry) error {
	seq, err := a.nextSequence()
	if err != nil {
		return err
	}
	wb := a.db.NewWriteBatch()
	defer wb.Cancel()
	for idx, entry := range entries {
		data, err := fragment.EncodeLogEntry(entry)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", idx, err)
		}
		if err := wb.Set(archiveKey(seq), data); err != nil {
			return fmt.Errorf("archive entry %d: %w", idx, err)
		}
		seq++
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	a.logger.Debug(
		fmt.Sprintf("archived %d fragment log entries", len(entries)),
		"component", "database",
	)
	return nil
}

// Entries returns all archived entries in import order
func (a *Archive) Entries() ([]fragment.LogEntry, error) {
	var ret []fragment.LogEntry
	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(archiveKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entry, _, err := fragment.DecodeLogEntry(data)
			if err != nil {
				return fmt.Errorf("archive key %x: %w", item.Key(), err)
			}
			ret = append(ret, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Len returns the number of archived entries
func (a *Archive) Len() (uint64, error) {
	return a.nextSequence()
}
