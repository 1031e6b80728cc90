package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/narration"
	"github.com/roach88/riddlechain/internal/puzzle"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Narrate bool
}

// PlayFrame is one line of output in JSON mode: the outcome of the last
// command followed by the view.
type PlayFrame struct {
	Command string          `json:"command,omitempty"`
	Verdict *puzzle.Verdict `json:"verdict,omitempty"`
	Error   *CLIError       `json:"error,omitempty"`
	View    app.View        `json:"view"`
}

const playHelp = `Commands:
  play <n|id>     open a sequence from the library
  next, n         next slide, or continue after an explanation
  back, b         previous intro slide
  begin           skip the intro
  <numbers>       answer the riddle showing (see the hint under it)
  skip, s         give up on the riddle showing
  restart, r      play the sequence again
  library, l      back to the library
  help, ?         this text
  quit, q         leave`

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [id]",
		Short: "Play sequences in the terminal",
		Long: `Play sequences from the library, one command per line on stdin.

Finished runs are added to the sequence's statistics. With --format json
every command answers with one JSON frame holding the current view.

` + playHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Narrate, "narrate", false, "reveal notes one sentence at a time")

	return cmd
}

func runPlay(opts *PlayOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	s, err := openSession(cmd.Context(), opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer s.Close()

	p := &player{
		ctrl:    s.controller(),
		out:     f.Writer,
		json:    f.JSON(),
		shuffle: rand.Perm,
	}
	if opts.Narrate && !f.JSON() {
		p.narrate = s.cfg.AutoAdvance
	}
	defer p.ctrl.GoToLibrary()

	first := "library"
	if len(args) == 1 {
		first = "play " + args[0]
	}
	if !p.handle(first) {
		return nil
	}
	p.loop(cmd.InOrStdin())
	return nil
}

// player turns lines of input into controller commands and renders the
// result.
type player struct {
	ctrl    *app.Controller
	out     io.Writer
	json    bool
	narrate time.Duration // zero prints notes whole

	shuffle func(n int) []int
	order   []int  // display order of the chain elements showing
	orderOf string // run token and step the order was drawn for
}

func (p *player) loop(in io.Reader) {
	sc := bufio.NewScanner(in)
	for {
		if !p.json {
			fmt.Fprint(p.out, "> ")
		}
		if !sc.Scan() {
			if !p.json {
				fmt.Fprintln(p.out)
			}
			return
		}
		if !p.handle(sc.Text()) {
			return
		}
	}
}

// handle runs one command line and renders. It reports false on quit.
func (p *player) handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	word := ""
	if len(fields) > 0 {
		word = fields[0]
	}

	var verdict *puzzle.Verdict
	var err error
	switch word {
	case "q", "quit", "exit":
		return false
	case "?", "help":
		if !p.json {
			fmt.Fprintln(p.out, playHelp)
			return true
		}
	case "l", "library":
		p.ctrl.GoToLibrary()
	case "play":
		err = p.open(fields[1:])
	case "", "n", "next", "continue":
		err = p.ctrl.Continue()
	case "b", "back":
		err = p.ctrl.BackIntro()
	case "begin":
		err = p.ctrl.BeginSequence()
	case "s", "skip":
		err = p.ctrl.Skip()
	case "r", "restart":
		err = p.ctrl.Restart()
	case "answer":
		verdict, err = p.answer(fields[1:])
	default:
		verdict, err = p.answer(fields)
	}

	p.render(line, verdict, err)
	return true
}

func (p *player) open(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: play <n|id>")
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		entries := p.ctrl.Entries()
		if n < 1 || n > len(entries) {
			return fmt.Errorf("no sequence number %d", n)
		}
		id = entries[n-1].ID
	}
	return p.ctrl.SelectSequence(id)
}

// answer submits and, for a valid answer, applies the transition at once so
// the next screen follows the verdict line.
func (p *player) answer(fields []string) (*puzzle.Verdict, error) {
	view := p.ctrl.View()
	if view.Run == nil || !view.Run.Phase.Answerable() {
		return nil, fmt.Errorf("unknown command %q (type help)", strings.Join(fields, " "))
	}
	a, err := parseAnswer(view.Run.Puzzle, fields, p.chainOrder(*view.Run))
	if err != nil {
		return nil, err
	}
	v, err := p.ctrl.SubmitAnswer(a)
	if err != nil {
		return nil, err
	}
	if v.Valid {
		p.ctrl.Settle()
	}
	return &v, nil
}

// chainOrder returns the shuffled display order for a chain puzzle, drawn
// once per step so repeated renders agree.
func (p *player) chainOrder(v engine.View) []int {
	c, ok := v.Puzzle.(puzzle.ChainBuilder)
	if !ok {
		return nil
	}
	key := fmt.Sprintf("%s/%d/%s", v.RunToken, v.StepIndex, v.Phase)
	if p.orderOf != key || len(p.order) != len(c.Elements) {
		p.order = p.shuffle(len(c.Elements))
		p.orderOf = key
	}
	return p.order
}

// parseAnswer reads 1-based numbers. For a chain they name elements in
// display order, slot by slot.
func parseAnswer(pz puzzle.Puzzle, fields []string, display []int) (puzzle.Answer, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return puzzle.Answer{}, fmt.Errorf("unknown command %q (type help)", strings.Join(fields, " "))
		}
		nums[i] = n - 1
	}

	switch v := pz.(type) {
	case puzzle.ClosedQuestion, puzzle.LogicMinefield:
		return puzzle.Answer{Selected: nums}, nil
	case puzzle.BasketQuestion:
		baskets := make(map[int]int, len(nums))
		for i, b := range nums {
			baskets[i] = b
		}
		return puzzle.Answer{Baskets: baskets}, nil
	case puzzle.ChainBuilder:
		order := make([]int, len(nums))
		for i, n := range nums {
			order[i] = -1
			if n >= 0 && n < len(display) && len(display) == len(v.Elements) {
				order[i] = display[n]
			}
		}
		return puzzle.Answer{Order: order}, nil
	case puzzle.PairMatching:
		pairs := make(map[int]int, len(nums))
		for i, r := range nums {
			pairs[i] = r
		}
		return puzzle.Answer{Pairs: pairs}, nil
	default:
		return puzzle.Answer{}, errors.New(puzzle.MsgUnknownPuzzle)
	}
}

func (p *player) render(command string, verdict *puzzle.Verdict, err error) {
	view := p.ctrl.View()
	if p.json {
		frame := PlayFrame{Command: command, Verdict: verdict, View: view}
		if err != nil {
			frame.Error = &CLIError{Code: playErrorCode(err), Message: err.Error()}
		}
		_ = json.NewEncoder(p.out).Encode(frame)
		return
	}

	if err != nil {
		fmt.Fprintf(p.out, "! %v\n", err)
		return
	}
	if verdict != nil {
		switch {
		case !verdict.Valid:
			fmt.Fprintf(p.out, "! %s\n", verdict.Message)
			return
		case verdict.Correct:
			fmt.Fprintln(p.out, "✓ Correct!")
		default:
			fmt.Fprintln(p.out, "✗ Not quite.")
		}
	}

	if view.Run == nil {
		printListing(p.out, LibraryListing{Entries: view.Library, Overall: view.Overall})
		fmt.Fprintln(p.out, "Type 'play <n>' to start.")
		return
	}
	p.renderRun(*view.Run)
}

func (p *player) renderRun(v engine.View) {
	w := p.out
	switch v.Phase {
	case engine.PhaseIntro:
		fmt.Fprintf(w, "== %s ==\n", v.SequenceTitle)
		if v.Slide != nil {
			p.note(fmt.Sprintf("[%d/%d] %s", v.IntroIndex+1, v.IntroCount, v.Slide.Title), v.Slide.Text)
		}
		fmt.Fprintln(w, "next · back · begin")
	case engine.PhaseMain, engine.PhaseSecondChance:
		label := "Riddle"
		if v.Phase == engine.PhaseSecondChance {
			label = "Second chance"
		}
		fmt.Fprintf(w, "-- %s %d/%d: %s -- score %d\n", label, v.StepIndex+1, v.StepCount, v.StepName, v.Score)
		renderPuzzle(w, v.Puzzle, p.chainOrder(v))
	case engine.PhaseExplanation, engine.PhaseContext:
		if v.Note != nil {
			p.note(v.Note.Title, v.Note.Text)
		}
		if v.StepSummary != nil {
			fmt.Fprintln(w, v.StepSummary.Text)
		}
		fmt.Fprintln(w, "next")
	case engine.PhaseDone:
		if v.Note != nil {
			p.note(v.Note.Title, v.Note.Text)
		}
		if v.Final != nil {
			fmt.Fprintln(w, v.Final.Text)
		}
		fmt.Fprintln(w, "restart · library")
	}
}

// note prints a title and its text sentence by sentence. With narration on
// it blocks while the pager reveals each sentence.
func (p *player) note(title, text string) {
	if title != "" {
		fmt.Fprintln(p.out, title)
	}
	if p.narrate <= 0 {
		for _, s := range narration.SplitSentences(text) {
			fmt.Fprintf(p.out, "  %s\n", s)
		}
		return
	}

	var mu sync.Mutex
	done := make(chan struct{})
	pager := narration.NewPager(text,
		narration.WithInterval(p.narrate),
		narration.OnChange(func(_ int, s string) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(p.out, "  %s\n", s)
		}),
		narration.OnDone(func() { close(done) }),
	)
	pager.Start()
	<-done
	pager.Stop()
	// Orders the last OnChange write before we return.
	mu.Lock()
	mu.Unlock()
}

func renderPuzzle(w io.Writer, pz puzzle.Puzzle, chainOrder []int) {
	switch v := pz.(type) {
	case puzzle.ClosedQuestion:
		fmt.Fprintln(w, v.Question)
		numbered(w, v.Options)
		fmt.Fprintln(w, "Answer with one number.")
	case puzzle.LogicMinefield:
		fmt.Fprintln(w, v.Prompt)
		numbered(w, v.Statements)
		fmt.Fprintln(w, "Answer with the number of the true inscription.")
	case puzzle.BasketQuestion:
		fmt.Fprintln(w, v.Prompt)
		fmt.Fprintln(w, "Baskets:")
		numbered(w, v.Baskets)
		fmt.Fprintln(w, "Items:")
		labels := make([]string, len(v.Items))
		for i, it := range v.Items {
			labels[i] = it.Label
		}
		numbered(w, labels)
		fmt.Fprintf(w, "Answer with a basket number for each of the %d items.\n", len(v.Items))
	case puzzle.ChainBuilder:
		fmt.Fprintln(w, v.Prompt)
		shown := make([]string, 0, len(v.Elements))
		for _, i := range chainOrder {
			if i >= 0 && i < len(v.Elements) {
				shown = append(shown, v.Elements[i])
			}
		}
		numbered(w, shown)
		fmt.Fprintf(w, "Answer with the %d element numbers in chain order.\n", len(v.Elements))
	case puzzle.PairMatching:
		fmt.Fprintln(w, v.Prompt)
		for i := range v.Left {
			right := ""
			if i < len(v.Right) {
				right = v.Right[i]
			}
			fmt.Fprintf(w, "  %d) %-30s %d) %s\n", i+1, v.Left[i], i+1, right)
		}
		fmt.Fprintln(w, "Answer with the right-hand number for each left-hand item.")
	default:
		fmt.Fprintln(w, puzzle.MsgUnknownPuzzle)
		fmt.Fprintln(w, "Type 'skip' to move on.")
	}
}

func numbered(w io.Writer, items []string) {
	for i, s := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, s)
	}
}

func playErrorCode(err error) string {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, app.ErrNoActiveRun):
		return "NO_ACTIVE_RUN"
	}
	if code := engine.ErrorCode(err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}
