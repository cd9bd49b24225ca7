package service

import (
	"context"
	"time"

	"github.com/alexanderramin/avance/internal/domain"
	"github.com/google/uuid"
)

// SnapshotSink is told after every committed mutation so the store can be
// re-saved. Errors are reported, never propagated to the use case.
type SnapshotSink interface {
	Notify(ctx context.Context) error
}

type Option func(*options)

type options struct {
	observer UseCaseObserver
	sink     SnapshotSink
	now      func() time.Time
	newID    func() string
}

func WithObserver(o UseCaseObserver) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

func WithSnapshotSink(s SnapshotSink) Option {
	return func(opts *options) {
		opts.sink = s
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(opts *options) {
		if newID != nil {
			opts.newID = newID
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		observer: NoopUseCaseObserver{},
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) today() time.Time {
	return domain.DayOf(o.now())
}

// useCase tracks one execution. finish must be deferred with a pointer to
// the named error result.
type useCase struct {
	opts      *options
	name      string
	mutates   bool
	startedAt time.Time
	fields    map[string]any
}

func (o *options) begin(name string, mutates bool, fields map[string]any) *useCase {
	if fields == nil {
		fields = map[string]any{}
	}
	return &useCase{opts: o, name: name, mutates: mutates, startedAt: time.Now(), fields: fields}
}

func (u *useCase) finish(ctx context.Context, err *error) {
	if *err == nil && u.mutates && u.opts.sink != nil {
		if sinkErr := u.opts.sink.Notify(ctx); sinkErr != nil {
			u.fields["snapshot_error"] = sinkErr.Error()
		}
	}
	u.opts.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.startedAt,
		Duration:  time.Since(u.startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    u.fields,
	})
}
