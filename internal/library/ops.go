package library

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/riddlechain/internal/sequence"
)

// List returns copies of every entry in library order.
func (l *Library) List() []*sequence.Sequence {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*sequence.Sequence, len(l.entries))
	for i, q := range l.entries {
		out[i] = q.Clone()
	}
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Get returns a copy of the entry with id.
func (l *Library) Get(id string) (*sequence.Sequence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return l.entries[i].Clone(), nil
}

// First returns a copy of the first entry. The library is never empty.
func (l *Library) First() *sequence.Sequence {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[0].Clone()
}

// Create appends a fresh copy of the default sequence as a starting point
// for authoring and persists the library.
func (l *Library) Create(ctx context.Context) *sequence.Sequence {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := sequence.Default()
	q.ID = l.freeID(len(l.entries)+1, l.idSet())
	l.entries = append(l.entries, q)
	l.persist(ctx)
	l.logger.Info("sequence created", "id", q.ID)
	return q.Clone()
}

// Save replaces the entry with q.ID by q after validating its structure and
// normalising its text. The stored run statistics are kept.
func (l *Library) Save(ctx context.Context, q *sequence.Sequence) (*sequence.Sequence, error) {
	if err := sequence.Validate(q); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(q.ID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, q.ID)
	}

	next := q.Clone()
	sequence.Normalize(next)
	prev := l.entries[i]
	next.StatsRuns = prev.StatsRuns
	next.StatsPointsAccum = prev.StatsPointsAccum
	next.StatsRiddlesAccum = prev.StatsRiddlesAccum
	l.entries[i] = next

	l.ensureDefault()
	l.persist(ctx)
	l.logger.Info("sequence saved", "id", next.ID, "title", next.Title)
	return next.Clone(), nil
}

// Import validates q and appends it with fresh statistics. Its id is kept
// when free and replaced otherwise.
func (l *Library) Import(ctx context.Context, q *sequence.Sequence) (*sequence.Sequence, error) {
	if err := sequence.Validate(q); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := q.Clone()
	sequence.Normalize(next)
	next.StatsRuns, next.StatsPointsAccum, next.StatsRiddlesAccum = 0, 0, 0
	taken := l.idSet()
	if next.ID == "" || taken[next.ID] {
		next.ID = l.freeID(len(l.entries)+1, taken)
	}
	l.entries = append(l.entries, next)
	l.persist(ctx)
	l.logger.Info("sequence imported", "id", next.ID, "title", next.Title)
	return next.Clone(), nil
}

// RecordRun adds one completed run to the entry's statistics and persists.
// It implements engine.StatsRecorder.
func (l *Library) RecordRun(ctx context.Context, id string, finalScore, stepCount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	q := l.entries[i]
	q.StatsRuns++
	q.StatsPointsAccum += finalScore
	q.StatsRiddlesAccum += stepCount
	l.persist(ctx)
	return nil
}

// Export returns the library in its persisted JSON form, indented.
func (l *Library) Export() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return json.MarshalIndent(l.entries, "", "  ")
}
