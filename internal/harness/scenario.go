package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/riddlechain/internal/puzzle"
)

// DefaultRunToken is used when a scenario names no run token.
const DefaultRunToken = "run-scenario"

// Scenario is a scripted play-through with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Sequence is an optional sequence document (JSON or YAML) imported into
	// the library before the flow. Relative paths resolve against the
	// scenario file.
	Sequence string `yaml:"sequence,omitempty"`

	// RunToken is the first run token handed out. Later runs get
	// "<token>-2", "<token>-3" and so on.
	RunToken string `yaml:"run_token,omitempty"`

	Flow       []Step      `yaml:"flow"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one controller command.
type Step struct {
	Command string `yaml:"command"`

	// ID is the library entry for select and edit.
	ID string `yaml:"id,omitempty"`

	// Answer is submitted by the answer command.
	Answer *puzzle.Answer `yaml:"answer,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks the outcome of one step. Only set fields are compared.
type Expect struct {
	// Error is the expected error code, e.g. WRONG_PHASE. Empty means the
	// command must succeed.
	Error   string `yaml:"error,omitempty"`
	Phase   string `yaml:"phase,omitempty"`
	Score   *int   `yaml:"score,omitempty"`
	Step    *int   `yaml:"step,omitempty"`
	Valid   *bool  `yaml:"valid,omitempty"`
	Correct *bool  `yaml:"correct,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Command is used by trace_contains and trace_count.
	Command string `yaml:"command,omitempty"`

	// Commands is the expected order for trace_order.
	Commands []string `yaml:"commands,omitempty"`

	// Phase is used by final_phase and, optionally, trace_contains.
	Phase string `yaml:"phase,omitempty"`

	Count int  `yaml:"count,omitempty"`
	Score *int `yaml:"score,omitempty"`

	// ID, Runs, Points and Riddles are used by library_stats.
	ID      string `yaml:"id,omitempty"`
	Runs    *int   `yaml:"runs,omitempty"`
	Points  *int   `yaml:"points,omitempty"`
	Riddles *int   `yaml:"riddles,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalPhase    = "final_phase"
	AssertFinalScore    = "final_score"
	AssertLibraryStats  = "library_stats"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if s.Sequence != "" && !filepath.IsAbs(s.Sequence) {
		s.Sequence = filepath.Join(filepath.Dir(path), s.Sequence)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if s.Sequence != "" {
		if _, err := os.Stat(s.Sequence); err != nil {
			return fmt.Errorf("sequence file not found: %s", s.Sequence)
		}
	}

	for i, step := range s.Flow {
		if _, ok := commands[step.Command]; !ok {
			return fmt.Errorf("flow[%d]: unknown command %q", i, step.Command)
		}
		if step.Command == CmdAnswer && step.Answer == nil {
			return fmt.Errorf("flow[%d]: answer is required for the answer command", i)
		}
		if (step.Command == CmdSelect || step.Command == CmdEdit) && step.ID == "" {
			return fmt.Errorf("flow[%d]: id is required for %s", i, step.Command)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Command == "" {
			return fmt.Errorf("trace_contains requires command")
		}
	case AssertTraceOrder:
		if len(a.Commands) < 2 {
			return fmt.Errorf("trace_order requires at least two commands")
		}
	case AssertTraceCount:
		if a.Command == "" {
			return fmt.Errorf("trace_count requires command")
		}
	case AssertFinalPhase:
		if a.Phase == "" {
			return fmt.Errorf("final_phase requires phase")
		}
	case AssertFinalScore:
		if a.Score == nil {
			return fmt.Errorf("final_score requires score")
		}
	case AssertLibraryStats:
		if a.ID == "" {
			return fmt.Errorf("library_stats requires id")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
