// Package narration splits narrator text into sentences and pages through
// them on a timer, the way the speech bubble in front of each riddle does.
package narration

import (
	"strings"
	"sync"
	"time"

	"github.com/roach88/riddlechain/internal/schedule"
)

// DefaultInterval is the auto-advance period between sentences.
const DefaultInterval = 3 * time.Second

// SplitSentences breaks text into paragraphs on blank lines and each
// paragraph into sentences ending in '.', '!' or '?'. A run of terminators
// such as "..." stays with its sentence. Trailing text without a terminator
// is its own sentence.
func SplitSentences(text string) []string {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if normalized == "" {
		return nil
	}

	var out []string
	for _, para := range splitParagraphs(normalized) {
		var acc strings.Builder
		runes := []rune(para)
		for i := 0; i < len(runes); i++ {
			acc.WriteRune(runes[i])
			if !isTerminator(runes[i]) {
				continue
			}
			for i+1 < len(runes) && isTerminator(runes[i+1]) {
				i++
				acc.WriteRune(runes[i])
			}
			if s := strings.TrimSpace(acc.String()); s != "" {
				out = append(out, s)
			}
			acc.Reset()
		}
		if s := strings.TrimSpace(acc.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitParagraphs(s string) []string {
	var paras []string
	for _, block := range strings.Split(s, "\n\n") {
		if strings.Trim(block, "\n") != "" {
			paras = append(paras, block)
		}
	}
	return paras
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Pager shows one sentence at a time and advances on its own every
// interval. Manual navigation restarts the timer. When the last sentence has
// been on screen for a full interval, onDone runs once and the timer stops.
//
// Thread-safety: Pager is safe for concurrent use. Callbacks run without the
// pager's lock held.
type Pager struct {
	mu        sync.Mutex
	sentences []string
	index     int
	interval  time.Duration
	slot      *schedule.Slot
	onChange  func(index int, sentence string)
	onDone    func()
	done      bool
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) PagerOption {
	return func(p *Pager) { p.interval = d }
}

// WithScheduler drives the pager from sched instead of real timers.
func WithScheduler(sched schedule.Scheduler) PagerOption {
	return func(p *Pager) { p.slot = schedule.NewSlot(sched) }
}

// OnChange is called with the sentence now showing.
func OnChange(f func(index int, sentence string)) PagerOption {
	return func(p *Pager) { p.onChange = f }
}

// OnDone is called once the pager runs off the end.
func OnDone(f func()) PagerOption {
	return func(p *Pager) { p.onDone = f }
}

// NewPager splits text into sentences. Text that yields none is shown whole.
func NewPager(text string, opts ...PagerOption) *Pager {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	p := &Pager{sentences: sentences, interval: DefaultInterval}
	for _, opt := range opts {
		opt(p)
	}
	if p.slot == nil {
		p.slot = schedule.NewSlot(nil)
	}
	return p
}

// Start shows the first sentence and arms the timer. A single-sentence pager
// finishes immediately.
func (p *Pager) Start() {
	p.mu.Lock()
	p.index = 0
	p.done = false
	idx, s := p.index, p.sentences[p.index]
	single := len(p.sentences) <= 1
	if single {
		p.done = true
		p.slot.Stop()
	} else {
		p.arm()
	}
	p.mu.Unlock()

	p.changed(idx, s)
	if single {
		p.finished()
	}
}

// Next moves forward one sentence and restarts the timer. It is a no-op on
// the last sentence.
func (p *Pager) Next() bool {
	return p.step(1)
}

// Prev moves back one sentence and restarts the timer. It is a no-op on the
// first sentence.
func (p *Pager) Prev() bool {
	return p.step(-1)
}

// Stop cancels the auto-advance timer.
func (p *Pager) Stop() {
	p.slot.Stop()
}

// Index returns the position of the sentence showing.
func (p *Pager) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Current returns the sentence showing.
func (p *Pager) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sentences[p.index]
}

// Sentences returns a copy of the sentence list.
func (p *Pager) Sentences() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sentences...)
}

// Done reports whether onDone has fired.
func (p *Pager) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// HasPrev and HasNext mirror the enabled state of the arrow buttons.
func (p *Pager) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index > 0
}

func (p *Pager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index < len(p.sentences)-1
}

func (p *Pager) step(delta int) bool {
	p.mu.Lock()
	next := p.index + delta
	if next < 0 || next >= len(p.sentences) {
		p.mu.Unlock()
		return false
	}
	p.index = next
	s := p.sentences[next]
	p.arm()
	p.mu.Unlock()

	p.changed(next, s)
	return true
}

// arm must be called with mu held.
func (p *Pager) arm() {
	p.slot.Reset(p.interval, p.tick)
}

func (p *Pager) tick() {
	p.mu.Lock()
	if p.index < len(p.sentences)-1 {
		p.index++
		idx, s := p.index, p.sentences[p.index]
		p.arm()
		p.mu.Unlock()
		p.changed(idx, s)
		return
	}
	already := p.done
	p.done = true
	p.mu.Unlock()
	if !already {
		p.finished()
	}
}

func (p *Pager) changed(idx int, s string) {
	if p.onChange != nil {
		p.onChange(idx, s)
	}
}

func (p *Pager) finished() {
	if p.onDone != nil {
		p.onDone()
	}
}
