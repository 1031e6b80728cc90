package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/riddlechain/internal/kv"
)

// ErrInjected is returned by FlakyKV operations set to fail.
var ErrInjected = errors.New("injected storage failure")

// FlakyKV wraps a kv.Store and fails reads or writes on demand, the way a
// full or disabled browser store would.
//
// Thread-safety: All methods are safe for concurrent use.
type FlakyKV struct {
	mu       sync.Mutex
	inner    kv.Store
	failGet  bool
	failSet  bool
	setCalls int
}

// NewFlakyKV wraps inner. A nil inner means an empty kv.Memory.
func NewFlakyKV(inner kv.Store) *FlakyKV {
	if inner == nil {
		inner = kv.NewMemory()
	}
	return &FlakyKV{inner: inner}
}

// FailReads makes every Get return ErrInjected.
func (f *FlakyKV) FailReads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = fail
}

// FailWrites makes every Set return ErrInjected without storing.
func (f *FlakyKV) FailWrites(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fail
}

// SetCalls returns how many times Set was called, failed or not.
func (f *FlakyKV) SetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

// Get implements kv.Store.
func (f *FlakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", false, ErrInjected
	}
	return f.inner.Get(ctx, key)
}

// Set implements kv.Store.
func (f *FlakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.setCalls++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.inner.Set(ctx, key, value)
}
