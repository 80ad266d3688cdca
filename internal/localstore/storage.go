// Package localstore provides the durable local key-value slot that holds the
// signed-in session, plus best-effort change notifications between processes
// sharing the same slot.
package localstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("localstore: closed")

// Storage is a string key-value store. Each call touches a single key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Change describes a write made through some storage handle.
type Change struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
	Origin  string `json:"origin"`
}

// Watchable storages report writes made by other handles on the same data.
// Delivery is best-effort: events may be dropped or arrive out of order, and a
// handle never sees its own writes.
type Watchable interface {
	Storage
	Changes(ctx context.Context) (<-chan Change, error)
}

// Notifier carries changes between storage handles.
type Notifier interface {
	Publish(ctx context.Context, c Change) error
	// Subscribe returns a channel of changes that is closed when ctx ends.
	Subscribe(ctx context.Context) (<-chan Change, error)
}

const subscriberBuffer = 16

func newOrigin() string { return uuid.NewString() }

// Notifying publishes every write on a Notifier and exposes the notifier as
// the change feed, turning any Storage into a Watchable one.
// A write that reached the inner storage succeeds even when publishing fails.
type Notifying struct {
	inner    Storage
	notifier Notifier
	origin   string
	log      *zap.Logger
}

// NotifyingOption configures a Notifying storage.
type NotifyingOption func(*Notifying)

// WithPublishLogger sets the logger that records failed publishes.
func WithPublishLogger(l *zap.Logger) NotifyingOption {
	return func(s *Notifying) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifier wraps s so that writes are published on n.
func WithNotifier(s Storage, n Notifier, opts ...NotifyingOption) *Notifying {
	ns := &Notifying{inner: s, notifier: n, origin: newOrigin(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

// Sibling returns another handle over the same storage and notifier with its own origin,
// the way two browser tabs share one local storage.
func (s *Notifying) Sibling() *Notifying {
	return &Notifying{inner: s.inner, notifier: s.notifier, origin: newOrigin(), log: s.log}
}

// Origin identifies this handle in published changes.
func (s *Notifying) Origin() string { return s.origin }

func (s *Notifying) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *Notifying) Set(ctx context.Context, key, value string) error {
	if err := s.inner.Set(ctx, key, value); err != nil {
		return err
	}
	s.publish(ctx, Change{Key: key, Value: value, Origin: s.origin})
	return nil
}

func (s *Notifying) Remove(ctx context.Context, key string) error {
	if err := s.inner.Remove(ctx, key); err != nil {
		return err
	}
	s.publish(ctx, Change{Key: key, Deleted: true, Origin: s.origin})
	return nil
}

func (s *Notifying) publish(ctx context.Context, c Change) {
	if err := s.notifier.Publish(ctx, c); err != nil {
		publishFailures.Inc()
		s.log.Warn("storage change not published", zap.String("key", c.Key), zap.Error(err))
	}
}

// Changes streams changes published by other handles.
func (s *Notifying) Changes(ctx context.Context) (<-chan Change, error) {
	in, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		for c := range in {
			if c.Origin == s.origin {
				continue
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
