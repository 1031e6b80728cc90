package app

import (
	"fmt"

	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/library"
)

// Entry is one row of the library list.
type Entry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Runs    int    `json:"runs"`
	Points  int    `json:"points"`
}

// View is what the controller shows: the library list on the library
// screen, the run snapshot on the sequence screen.
type View struct {
	Screen     Screen          `json:"screen"`
	Mode       Mode            `json:"mode"`
	SequenceID string          `json:"sequenceId,omitempty"`
	Library    []Entry         `json:"library,omitempty"`
	Totals     *library.Totals `json:"totals,omitempty"`
	Overall    string          `json:"overall,omitempty"`
	Run        *engine.View    `json:"run,omitempty"`
}

// Entries lists the library rows.
func (c *Controller) Entries() []Entry {
	list := c.lib.List()
	out := make([]Entry, len(list))
	for i, q := range list {
		title := q.Title
		if title == "" {
			title = fmt.Sprintf("Sequence %d", i+1)
		}
		out[i] = Entry{
			ID:      q.ID,
			Title:   title,
			Summary: library.Summary(q),
			Runs:    q.StatsRuns,
			Points:  q.StatsPointsAccum,
		}
	}
	return out
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Screen: c.screen, Mode: c.mode, SequenceID: c.current}
	if c.screen == ScreenLibrary || c.run == nil {
		totals := c.lib.Totals()
		v.Library = c.Entries()
		v.Totals = &totals
		v.Overall = totals.Text()
		return v
	}
	rv := c.run.View()
	v.Run = &rv
	return v
}
