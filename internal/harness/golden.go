package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript is the golden-file form of a scenario run.
type Transcript struct {
	ScenarioName string       `json:"scenario_name"`
	Pass         bool         `json:"pass"`
	FinalPhase   string       `json:"final_phase,omitempty"`
	FinalScore   int          `json:"final_score"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalTranscript renders a result as indented JSON with a trailing
// newline.
func MarshalTranscript(name string, result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(Transcript{
		ScenarioName: name,
		Pass:         result.Pass,
		FinalPhase:   result.FinalPhase,
		FinalScore:   result.FinalScore,
		Trace:        result.Trace,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its transcript against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalTranscript(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
