package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"folio/app/logging"

	"github.com/dgraph-io/badger/v4"
)

// Defaults for Options fields left at zero.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultRetryBackoff = 25 * time.Millisecond

	seqBandwidth = 100
)

// Options bound every call the Repository makes.
type Options struct {
	// Timeout caps a single repository call, retries included.
	Timeout time.Duration
	// RetryBackoff is the pause before the one retry of a conflicting write.
	RetryBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	return o
}

// Repository implements ContentRepository and AdminRepository on BadgerDB.
//
// Badger transactions are serializable: a transaction that read a key which
// another transaction committed a write to in the meantime fails with
// ErrConflict. Every comment or reply insert rewrites the owning project's
// thread key and DeleteProject reads it, so the two can never interleave.
type Repository struct {
	db     *badger.DB
	opts   Options
	ownsDB bool

	seqMu sync.Mutex
	seqs  map[string]*badger.Sequence
}

// NewRepository opens the database at path. An empty path opens an
// in-memory database, which is what the tests use.
func NewRepository(path string, opts Options) (*Repository, error) {
	badgerOpts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	r := NewRepositoryWithDB(db, opts)
	r.ownsDB = true
	return r, nil
}

// NewRepositoryWithDB wraps an already open database. Close releases the
// ID leases but leaves db open.
func NewRepositoryWithDB(db *badger.DB, opts Options) *Repository {
	return &Repository{
		db:   db,
		opts: opts.withDefaults(),
		seqs: make(map[string]*badger.Sequence),
	}
}

// Close releases ID sequences and, when the repository opened the
// database itself, closes it.
func (r *Repository) Close() error {
	r.seqMu.Lock()
	var errs []error
	for key, seq := range r.seqs {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", key, err))
		}
	}
	r.seqs = make(map[string]*badger.Sequence)
	r.seqMu.Unlock()

	if r.ownsDB {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Backup writes a full backup stream to w and returns the version it covers.
func (r *Repository) Backup(w io.Writer) (uint64, error) {
	return r.db.Backup(w, 0)
}

// Restore loads a stream written by Backup. Run it against an empty
// database before any write has happened.
func (r *Repository) Restore(rd io.Reader) error {
	return r.db.Load(rd, 16)
}

// nextID hands out the next identifier for seqKey. IDs start at 1 and only
// grow; a retried transaction may leave gaps.
func (r *Repository) nextID(seqKey string) (int, error) {
	r.seqMu.Lock()
	seq, ok := r.seqs[seqKey]
	if !ok {
		var err error
		seq, err = r.db.GetSequence([]byte(seqKey), seqBandwidth)
		if err != nil {
			r.seqMu.Unlock()
			return 0, fmt.Errorf("failed to get sequence %s: %w", seqKey, err)
		}
		r.seqs[seqKey] = seq
	}
	r.seqMu.Unlock()

	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", seqKey, err)
	}
	return int(n) + 1, nil
}

// view runs a read-only transaction under the configured timeout.
func (r *Repository) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return deadlineError(err)
	}
	return r.db.View(fn)
}

// update runs fn in a read-write transaction. A transaction that loses a
// conflict is retried once after a backoff; a second loss, or running out
// of time, is reported as ErrTimeout. A transaction is never interrupted
// once started, so a cancelled context means it either never ran or fully
// committed.
func (r *Repository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			logging.Debugf("store: write conflict, retrying in %s", r.opts.RetryBackoff)
			timer := time.NewTimer(r.opts.RetryBackoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return deadlineError(ctx.Err())
			case <-timer.C:
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return deadlineError(ctxErr)
		}

		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTimeout, err)
}

func deadlineError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// threadStats is the per-project row every thread write goes through.
type threadStats struct {
	Comments int `json:"comments"`
	Replies  int `json:"replies"`
}

func readThread(txn *badger.Txn, projectID int) (threadStats, error) {
	var stats threadStats
	err := getEntity(txn, threadKey(projectID), &stats)
	if errors.Is(err, ErrNotFound) {
		return threadStats{}, nil
	}
	return stats, err
}

func touchThread(txn *badger.Txn, projectID, comments, replies int) error {
	stats, err := readThread(txn, projectID)
	if err != nil {
		return err
	}
	stats.Comments += comments
	stats.Replies += replies
	return setEntity(txn, threadKey(projectID), stats)
}
