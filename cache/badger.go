// Copyright 2026 Quarry Authors
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


package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/quarryhq/quarry/core"
)

const fingerprintPrefix = "fp:"

// Badger is a Cache backed by a BadgerDB key-value store.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ Cache = (*Badger)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBadger opens a BadgerDB-backed cache at the specified path.
// Creates the directory if it doesn't exist.
func OpenBadger(filePath string, inMemory bool) (*Badger, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Badger{
		db:     db,
		logger: slog.Default().With("component", "dedup-cache"),
	}, nil
}

// Contains reports whether the fingerprint is recorded.
// Read failures are logged and reported as "not seen" so an ailing
// cache slows a run down instead of breaking it.
func (b *Badger) Contains(ctx context.Context, fp core.Fingerprint) bool {
	var found bool
	err := b.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get(key(fp))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		b.logger.Warn("cache lookup failed, treating document as unseen", "fingerprint", uint64(fp), "err", err)
		return false
	}
	return found
}

// Insert records a fingerprint with its entry metadata.
func (b *Badger) Insert(ctx context.Context, fp core.Fingerprint, entry Entry) error {
	return b.db.Update(func(tx *badger.Txn) error {
		return tx.Set(key(fp), MarshalEntry(entry))
	})
}

// Get retrieves the entry recorded for a fingerprint.
// Returns ErrEntryNotFound when the fingerprint is not cached.
func (b *Badger) Get(ctx context.Context, fp core.Fingerprint) (Entry, error) {
	var entry Entry
	err := b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key(fp))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = UnmarshalEntry(val)
			return err
		})
	})
	return entry, err
}

// Close closes the BadgerDB database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func key(fp core.Fingerprint) []byte {
	k := make([]byte, 0, len(fingerprintPrefix)+8)
	k = append(k, fingerprintPrefix...)
	return append(k, fp.Bytes()...)
}
