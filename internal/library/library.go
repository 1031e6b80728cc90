// Package library keeps the collection of playable sequences and persists it
// as one JSON document in a kv.Store.
//
// Loading never fails: missing or malformed data falls back to a library that
// holds the built-in default sequence. Writes that fail are logged and
// ignored; the in-memory library stays authoritative for the session.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/riddlechain/internal/kv"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Storage keys.
const (
	LibraryKey = "puzzleSequenceLibrary_v1"
	LegacyKey  = "puzzleSequence_v1"
)

// LegacyID is given to a sequence migrated from LegacyKey.
const LegacyID = "seq-legacy-1"

// ErrNotFound is returned for an id the library does not hold.
var ErrNotFound = errors.New("sequence not found")

// Library is the ordered collection of sequences.
//
// Invariants after Load and after every mutation:
//   - at least one entry is titled exactly sequence.DefaultTitle
//   - every entry has a non-empty id, unique within the library
//
// Thread-safety: Library is safe for concurrent use. Returned sequences are
// copies.
type Library struct {
	mu      sync.Mutex
	store   kv.Store
	entries []*sequence.Sequence
	logger  *slog.Logger
}

// Option configures Load.
type Option func(*Library)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) { lib.logger = l }
}

// Load reads the library from store, migrating the legacy single-sequence
// key when the library is empty and inserting the default sequence when it
// is missing. Nothing is written back until the first mutation.
func Load(ctx context.Context, store kv.Store, opts ...Option) *Library {
	lib := &Library{store: store}
	for _, opt := range opts {
		opt(lib)
	}
	if lib.logger == nil {
		lib.logger = slog.Default()
	}

	lib.entries = lib.readLibrary(ctx)
	if len(lib.entries) == 0 {
		if legacy := lib.readLegacy(ctx); legacy != nil {
			legacy.ID = LegacyID
			lib.entries = append(lib.entries, legacy)
			lib.logger.Info("migrated legacy sequence", "title", legacy.Title)
		}
	}
	lib.ensureDefault()
	lib.assignIDs()
	return lib
}

func (l *Library) readLibrary(ctx context.Context) []*sequence.Sequence {
	raw, ok, err := l.store.Get(ctx, LibraryKey)
	if err != nil {
		l.logger.Warn("read library failed, starting empty", "key", LibraryKey, "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.logger.Warn("library is not a JSON array, starting empty", "key", LibraryKey, "error", err)
		return nil
	}

	entries := make([]*sequence.Sequence, 0, len(items))
	for i, item := range items {
		if isNull(item) {
			continue
		}
		q, err := sequence.DecodeJSON(item)
		if err != nil {
			l.logger.Warn("dropping undecodable library entry", "index", i, "error", err)
			continue
		}
		entries = append(entries, q)
	}
	return entries
}

// readLegacy returns the single stored sequence if it passes the sanity
// check: an object with both steps and introSlides.
func (l *Library) readLegacy(ctx context.Context) *sequence.Sequence {
	raw, ok, err := l.store.Get(ctx, LegacyKey)
	if err != nil {
		l.logger.Warn("read legacy sequence failed", "key", LegacyKey, "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil
	}
	if isNull(probe["steps"]) || isNull(probe["introSlides"]) {
		return nil
	}
	q, err := sequence.DecodeJSON([]byte(raw))
	if err != nil {
		l.logger.Warn("legacy sequence is undecodable", "error", err)
		return nil
	}
	return q
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// ensureDefault inserts a copy of the default sequence at the front unless
// an entry already carries its exact title.
func (l *Library) ensureDefault() {
	for _, q := range l.entries {
		if q.Title == sequence.DefaultTitle {
			return
		}
	}
	def := sequence.Default()
	def.ID = l.freeID(len(l.entries)+1, l.idSet())
	l.entries = append([]*sequence.Sequence{def}, l.entries...)
}

// assignIDs gives every entry without an id, or with an id already used by
// an earlier entry, the id seq-{position}, bumped until free.
func (l *Library) assignIDs() {
	taken := make(map[string]bool, len(l.entries))
	var needs []int
	for i, q := range l.entries {
		if q.ID == "" || taken[q.ID] {
			needs = append(needs, i)
			continue
		}
		taken[q.ID] = true
	}
	for _, i := range needs {
		old := l.entries[i].ID
		id := l.freeID(i+1, taken)
		taken[id] = true
		l.entries[i].ID = id
		if old != "" {
			l.logger.Warn("reassigned duplicate sequence id", "old", old, "new", id)
		}
	}
}

func (l *Library) idSet() map[string]bool {
	ids := make(map[string]bool, len(l.entries))
	for _, q := range l.entries {
		if q.ID != "" {
			ids[q.ID] = true
		}
	}
	return ids
}

// freeID returns seq-{n}, or the first seq-{n+k} not in taken.
func (l *Library) freeID(n int, taken map[string]bool) string {
	for {
		id := fmt.Sprintf("seq-%d", n)
		if !taken[id] {
			return id
		}
		n++
	}
}

// persist writes the whole collection. Failures are logged and ignored.
// Must be called with mu held.
func (l *Library) persist(ctx context.Context) {
	data, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.Warn("encode library failed, not saved", "error", err)
		return
	}
	if err := l.store.Set(ctx, LibraryKey, string(data)); err != nil {
		l.logger.Warn("save library failed, continuing in memory", "key", LibraryKey, "error", err)
	}
}

func (l *Library) indexOf(id string) int {
	for i, q := range l.entries {
		if q.ID == id {
			return i
		}
	}
	return -1
}
