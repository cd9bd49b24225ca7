package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ExportFunc produces the current snapshot.
type ExportFunc func(ctx context.Context) ([]byte, error)

// Replicator re-saves the snapshot after each mutation. The local store is
// written synchronously; the remote store is fed by one background worker
// that uploads at most one snapshot at a time and only ever the latest one
// pending. Remote failures are logged and counted, never retried.
type Replicator struct {
	export ExportFunc
	local  Store
	remote Store
	logger *slog.Logger

	mu      sync.Mutex
	pending []byte
	wake    chan struct{}
	done    chan struct{}
	closed  bool

	uploads  atomic.Int64
	failures atomic.Int64
}

// NewReplicator starts the remote worker when remote is non-nil. Either
// store may be nil. Call Close to stop the worker.
func NewReplicator(export ExportFunc, local, remote Store, logger *slog.Logger) *Replicator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Replicator{
		export: export,
		local:  local,
		remote: remote,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	if remote != nil {
		go r.run()
	} else {
		close(r.done)
	}
	return r
}

// Notify exports the current snapshot, saves it locally and queues it for
// the remote store. Only export and local failures are returned.
func (r *Replicator) Notify(ctx context.Context) error {
	if r.local == nil && r.remote == nil {
		return nil
	}
	data, err := r.export(ctx)
	if err != nil {
		return fmt.Errorf("exporting snapshot: %w", err)
	}
	if r.local != nil {
		if err := r.local.Save(ctx, data); err != nil {
			return fmt.Errorf("saving local snapshot: %w", err)
		}
	}
	if r.remote != nil {
		r.enqueue(data)
	}
	return nil
}

func (r *Replicator) enqueue(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.pending = data
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Replicator) take() ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := r.pending
	r.pending = nil
	return data, r.closed
}

func (r *Replicator) run() {
	defer close(r.done)
	for range r.wake {
		for {
			data, closed := r.take()
			if data == nil {
				if closed {
					return
				}
				break
			}
			r.upload(data)
		}
	}
}

func (r *Replicator) upload(data []byte) {
	if err := r.remote.Save(context.Background(), data); err != nil {
		r.failures.Add(1)
		r.logger.Warn("remote snapshot save failed", "error", err, "bytes", len(data))
		return
	}
	r.uploads.Add(1)
	r.logger.Debug("remote snapshot saved", "bytes", len(data))
}

// Uploads is the number of successful remote saves.
func (r *Replicator) Uploads() int64 { return r.uploads.Load() }

// Failures is the number of failed remote saves.
func (r *Replicator) Failures() int64 { return r.failures.Load() }

// Close stops accepting snapshots and waits until the pending upload, if
// any, has finished or ctx is done.
func (r *Replicator) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		if r.remote != nil {
			close(r.wake)
		}
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
