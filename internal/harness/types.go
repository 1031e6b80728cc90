package harness

import "github.com/roach88/riddlechain/internal/puzzle"

// TraceEvent records one executed command and what the controller showed
// afterwards.
type TraceEvent struct {
	Seq      int64           `json:"seq"`
	Command  string          `json:"command"`
	ID       string          `json:"id,omitempty"`
	Answer   *puzzle.Answer  `json:"answer,omitempty"`
	Error    string          `json:"error,omitempty"`
	Verdict  *puzzle.Verdict `json:"verdict,omitempty"`
	Screen   string          `json:"screen"`
	Phase    string          `json:"phase,omitempty"`
	Step     int             `json:"step"`
	Score    int             `json:"score"`
	RunToken string          `json:"run_token,omitempty"`
	Summary  string          `json:"summary,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// FinalPhase and FinalScore describe the run after the last command.
	// FinalPhase is empty when the flow ended on the library screen.
	FinalPhase string `json:"final_phase,omitempty"`
	FinalScore int    `json:"final_score"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Commands returns the command of every trace event, in order.
func (r *Result) Commands() []string {
	out := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		out[i] = ev.Command
	}
	return out
}
