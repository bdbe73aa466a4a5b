package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Fuzara/cashcraft/pkg/logger"
)

// FallbackStore wraps a primary Store and degrades to an in-memory
// store when the primary fails or panics. Degradation is transparent
// to callers: operations succeed against the fallback and the event is
// logged once. Once degraded the store stays on the fallback for the
// rest of the process lifetime, since state written during degradation
// would otherwise diverge from the primary.
type FallbackStore struct {
	primary  Store
	fallback *MemoryStore
	degraded atomic.Bool
	warnOnce sync.Once
	logger   *logger.Logger
}

// NewFallbackStore wraps primary with in-memory degradation.
func NewFallbackStore(primary Store, log *logger.Logger) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: NewMemoryStore(),
		logger:   log.WithField("component", "storage.fallback"),
	}
}

// Degraded reports whether the store has switched to the in-memory fallback.
func (s *FallbackStore) Degraded() bool {
	return s.degraded.Load()
}

func (s *FallbackStore) degrade(op string, cause error) {
	s.degraded.Store(true)
	s.warnOnce.Do(func() {
		s.logger.Warn("primary storage unavailable, degrading to in-memory store",
			"operation", op, "error", cause)
	})
}

// try runs op against the primary, converting panics into errors.
func (s *FallbackStore) try(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage backend panic in %s: %v", op, r)
		}
	}()
	return fn()
}

func (s *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !s.degraded.Load() {
		var value []byte
		err := s.try("get", func() error {
			var getErr error
			value, getErr = s.primary.Get(ctx, key)
			return getErr
		})
		if err == nil || errors.Is(err, ErrKeyNotFound) {
			return value, err
		}
		s.degrade("get", err)
	}
	return s.fallback.Get(ctx, key)
}

func (s *FallbackStore) Set(ctx context.Context, key string, value []byte) error {
	if !s.degraded.Load() {
		err := s.try("set", func() error {
			return s.primary.Set(ctx, key, value)
		})
		if err == nil {
			return nil
		}
		s.degrade("set", err)
	}
	return s.fallback.Set(ctx, key, value)
}

func (s *FallbackStore) Delete(ctx context.Context, key string) error {
	if !s.degraded.Load() {
		err := s.try("delete", func() error {
			return s.primary.Delete(ctx, key)
		})
		if err == nil {
			return nil
		}
		s.degrade("delete", err)
	}
	return s.fallback.Delete(ctx, key)
}

func (s *FallbackStore) Ping(ctx context.Context) error {
	if s.degraded.Load() {
		return s.fallback.Ping(ctx)
	}
	err := s.try("ping", func() error {
		return s.primary.Ping(ctx)
	})
	if err != nil {
		s.degrade("ping", err)
		return s.fallback.Ping(ctx)
	}
	return nil
}

func (s *FallbackStore) Close() error {
	return s.primary.Close()
}
