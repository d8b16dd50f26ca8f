/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

var (
	ErrJournalOpen   = errors.New("opening journal")
	ErrJournalAppend = errors.New("appending job to journal")
	ErrJournalList   = errors.New("listing journal")
	ErrJournalPrune  = errors.New("pruning journal")
)

// Job outcomes.
const (
	JobSuccess = "success"
	JobError   = "error"
	JobIgnored = "ignored"
)

// DefaultMaxJobs is the number of jobs kept by Prune when none is configured.
const DefaultMaxJobs = 1000

var jobPrefix = []byte("job:")

// Job is the record of one dispatched request.
type Job struct {
	ID        uuid.UUID          `json:"id"`
	Family    protocol.Family    `json:"family"`
	Operation protocol.Operation `json:"operation"`
	Outcome   string             `json:"outcome"`
	ErrorCode string             `json:"errorCode,omitempty"`
	StartedAt time.Time          `json:"startedAt"`
	Duration  time.Duration      `json:"duration"`
}

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Journal is an append-only log of dispatched requests.
type Journal interface {
	// Append stores a job. A nil ID is replaced by a random one.
	Append(ctx context.Context, job Job) error
	// List returns at most limit jobs, newest first. A limit <= 0 returns all jobs.
	List(ctx context.Context, limit int) ([]Job, error)
	// Prune deletes all but the newest keep jobs and returns how many were deleted.
	Prune(ctx context.Context, keep int) (int, error)
	Close() error
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewJournal opens a badger-backed journal at path. An empty path keeps the
// journal in memory.
func NewJournal(path string) (Journal, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if path != "" {
		opts = badger.DefaultOptions(filepath.Clean(path)).WithValueLogFileSize(1 << 20)
	}

	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(err, ErrJournalOpen)
	}

	return &badgerJournal{db: db}, nil
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type badgerJournal struct {
	db *badger.DB
}

// jobKey orders jobs by start time. The id suffix keeps keys unique.
func jobKey(job Job) []byte {
	return fmt.Appendf(nil, "%s%020d:%s", jobPrefix, job.StartedAt.UnixNano(), job.ID)
}

func (j *badgerJournal) Append(_ context.Context, job Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return errors.Join(err, ErrJournalAppend)
	}

	if err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(job), data)
	}); err != nil {
		return errors.Join(err, ErrJournalAppend)
	}

	return nil
}

func (j *badgerJournal) List(ctx context.Context, limit int) ([]Job, error) {
	out := make([]Job, 0)

	err := j.db.View(func(txn *badger.Txn) error {
		return reverseScan(txn, true, func(item *badger.Item) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}

			var job Job
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &job)
			}); err != nil {
				return false, err
			}

			out = append(out, job)

			return limit <= 0 || len(out) < limit, nil
		})
	})
	if err != nil {
		return nil, errors.Join(err, ErrJournalList)
	}

	return out, nil
}

func (j *badgerJournal) Prune(_ context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	var stale [][]byte

	err := j.db.View(func(txn *badger.Txn) error {
		seen := 0

		return reverseScan(txn, false, func(item *badger.Item) (bool, error) {
			seen++
			if seen > keep {
				stale = append(stale, item.KeyCopy(nil))
			}

			return true, nil
		})
	})
	if err != nil {
		return 0, errors.Join(err, ErrJournalPrune)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()

	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return 0, errors.Join(err, ErrJournalPrune)
		}
	}

	if err := wb.Flush(); err != nil {
		return 0, errors.Join(err, ErrJournalPrune)
	}

	return len(stale), nil
}

func (j *badgerJournal) Close() error {
	return j.db.Close()
}

// reverseScan visits jobs newest first until fn returns false.
func reverseScan(txn *badger.Txn, values bool, fn func(item *badger.Item) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = values
	opts.Prefix = jobPrefix

	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte{}, jobPrefix...), 0xFF)
	for it.Seek(seek); it.ValidForPrefix(jobPrefix); it.Next() {
		more, err := fn(it.Item())
		if err != nil {
			return err
		}

		if !more {
			return nil
		}
	}

	return nil
}
