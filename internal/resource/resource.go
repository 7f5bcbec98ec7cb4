// Package resource implements the stale-while-fetching controller every
// screen reads through. A controller tracks loading/error/data state for
// one asynchronous producer and exposes a manual refresh.
package resource

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/notify"
)

type Producer[T any] func(ctx context.Context) (T, error)

type Snapshot[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     error
}

type Options struct {
	Notifier notify.Notifier
	Logger   zerolog.Logger
	// OnChange is invoked after every state transition, outside the
	// controller lock. Optional.
	OnChange func()
}

// Resource runs fetch attempts tagged with monotonically increasing
// sequence numbers. A completion whose sequence is lower than the highest
// already applied is discarded, so state reflects the most recently
// requested fetch rather than raw completion order.
type Resource[T any] struct {
	ctx      context.Context
	cancel   context.CancelFunc
	notifier notify.Notifier
	logger   zerolog.Logger
	onChange func()

	mu       sync.Mutex
	producer Producer[T]
	data     T
	hasData  bool
	loading  bool
	err      error
	nextSeq  uint64
	applied  uint64
	closed   bool

	wg sync.WaitGroup
}

// New builds the controller and schedules exactly one automatic fetch.
func New[T any](ctx context.Context, producer Producer[T], opts Options) *Resource[T] {
	rctx, cancel := context.WithCancel(ctx)
	r := &Resource[T]{
		ctx:      rctx,
		cancel:   cancel,
		producer: producer,
		notifier: opts.Notifier,
		logger:   opts.Logger.With().Str("component", "resource").Logger(),
		onChange: opts.OnChange,
	}
	r.startAttempt()
	return r
}

// Refresh launches an independent fetch attempt immediately, regardless of
// current state. Overlapping attempts are not queued.
func (r *Resource[T]) Refresh() {
	r.startAttempt()
}

// Rebind swaps the producer and triggers a fetch. This is the
// dependency-change path: a view whose query parameter changed rebinds to
// a producer closed over the new parameter.
func (r *Resource[T]) Rebind(producer Producer[T]) {
	r.mu.Lock()
	r.producer = producer
	r.mu.Unlock()
	r.startAttempt()
}

// Close cancels the controller. Attempts settling afterwards are guarded
// no-ops: no state update, no notification.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
}

// Wait blocks until all launched attempts have settled.
func (r *Resource[T]) Wait() {
	r.wg.Wait()
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{Data: r.data, HasData: r.hasData, Loading: r.loading, Err: r.err}
}

func (r *Resource[T]) Data() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.hasData
}

func (r *Resource[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Resource[T]) startAttempt() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.nextSeq++
	seq := r.nextSeq
	producer := r.producer
	r.loading = true
	r.err = nil
	r.mu.Unlock()

	r.notifyChange()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		data, err := producer(r.ctx)
		r.settle(seq, data, err)
	}()
}

func (r *Resource[T]) settle(seq uint64, data T, err error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	notifyErr := err != nil

	if seq > r.applied {
		r.applied = seq
		latest := seq == r.nextSeq
		if err == nil {
			r.data = data
			r.hasData = true
			r.err = nil
			if latest {
				r.loading = false
			}
		} else if latest {
			// A failed attempt never clears previously fetched data.
			// Errors from attempts already superseded by a newer in-flight
			// one are not recorded, so err != nil implies loading == false.
			r.err = err
			r.loading = false
		}
	}
	r.mu.Unlock()

	if notifyErr {
		r.logger.Warn().Uint64("seq", seq).Err(err).Msg("fetch attempt failed")
		if r.notifier != nil {
			r.notifier.Error("Error", err.Error())
		}
	}
	r.notifyChange()
}

func (r *Resource[T]) notifyChange() {
	if r.onChange != nil {
		r.onChange()
	}
}
