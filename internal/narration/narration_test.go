package narration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/riddlechain/internal/narration"
	"github.com/roach88/riddlechain/internal/testutil"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "  \n ", nil},
		{"single without terminator", "Just a phrase", []string{"Just a phrase"}},
		{"mixed terminators", "One. Two! Three? Four", []string{"One.", "Two!", "Three?", "Four"}},
		{"ellipsis stays together", "Wait... Then go.", []string{"Wait...", "Then go."}},
		{"paragraphs", "First para.\r\n\r\nSecond para", []string{"First para.", "Second para"}},
		{"single newline kept", "Line one\nline two.", []string{"Line one\nline two."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, narration.SplitSentences(tt.in))
		})
	}
}

func TestPager_AutoAdvance(t *testing.T) {
	sched := testutil.NewManualScheduler()
	var shown []string
	done := 0
	p := narration.NewPager("A. B. C.",
		narration.WithScheduler(sched),
		narration.OnChange(func(_ int, s string) { shown = append(shown, s) }),
		narration.OnDone(func() { done++ }),
	)

	p.Start()
	assert.Equal(t, []string{"A."}, shown)
	assert.False(t, p.HasPrev())

	sched.Advance(narration.DefaultInterval)
	sched.Advance(narration.DefaultInterval)
	assert.Equal(t, []string{"A.", "B.", "C."}, shown)
	assert.False(t, p.HasNext())
	assert.Equal(t, 0, done)

	sched.Advance(narration.DefaultInterval)
	assert.Equal(t, 1, done)
	assert.True(t, p.Done())
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, 1, done, "done fires once")
}

func TestPager_ManualNavigationRestartsTimer(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := narration.NewPager("A. B. C.", narration.WithScheduler(sched))
	p.Start()

	sched.Advance(2 * time.Second)
	assert.True(t, p.Next())
	assert.Equal(t, "B.", p.Current())

	// The old tick at 3s was cancelled; the new one is due 3s after Next.
	sched.Advance(2 * time.Second)
	assert.Equal(t, 1, p.Index())
	sched.Advance(time.Second)
	assert.Equal(t, 2, p.Index())

	assert.True(t, p.Prev())
	assert.Equal(t, "B.", p.Current())
	assert.Equal(t, 1, sched.Pending())

	assert.True(t, p.Prev())
	assert.False(t, p.Prev(), "no sentence before the first")
}

func TestPager_SingleSentenceFinishesImmediately(t *testing.T) {
	sched := testutil.NewManualScheduler()
	done := false
	p := narration.NewPager("Only one", narration.WithScheduler(sched), narration.OnDone(func() { done = true }))

	p.Start()
	assert.True(t, done)
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, []string{"Only one"}, p.Sentences())
}

func TestPager_Stop(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := narration.NewPager("A. B.", narration.WithScheduler(sched), narration.WithInterval(time.Second))
	p.Start()
	p.Stop()

	sched.Advance(time.Minute)
	assert.Equal(t, 0, p.Index())
	assert.False(t, p.Done())
}
