package sequence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riddlechain/internal/puzzle"
)

func TestStep_HasContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Note
		want bool
	}{
		{"absent", nil, false},
		{"blank", &Note{Title: "  ", Text: "\n\t"}, false},
		{"title only", &Note{Title: "Why"}, true},
		{"text only", &Note{Text: "Because."}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Step{Context: tt.ctx}.HasContext())
		})
	}
}

func TestStep_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"name": "s1",
		"main": {"type":"puzzle","puzzleKind":"chainBuilder","prompt":"p","elements":["a","b","c"]},
		"secondChance": {"type":"puzzle","puzzleKind":"closedQuestion","question":"q","options":["x","y"],"correctIndex":1},
		"explanation": {"title":"E","text":"because"}
	}`)

	var st Step
	require.NoError(t, json.Unmarshal(data, &st))

	assert.Equal(t, "s1", st.Name)
	assert.Equal(t, puzzle.ChainBuilder{Prompt: "p", Elements: []string{"a", "b", "c"}}, st.Main)
	assert.Equal(t, 1, st.SecondChance.CorrectIndex)
	assert.Nil(t, st.Context)
	assert.False(t, st.HasContext())
}

func TestStep_UnmarshalJSON_UnknownKindLoads(t *testing.T) {
	var st Step
	require.NoError(t, json.Unmarshal([]byte(`{"name":"s","main":{"type":"puzzle","puzzleKind":"wordSearch"}}`), &st))
	assert.Equal(t, puzzle.Kind("wordSearch"), st.MainKind())
	_, unknown := st.Main.(puzzle.Unknown)
	assert.True(t, unknown)
}

func TestSequence_JSONRoundTripPreservesStats(t *testing.T) {
	q := Default()
	q.ID = "seq-3"
	q.StatsRuns = 2
	q.StatsPointsAccum = 41
	q.StatsRiddlesAccum = 16

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var back Sequence
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, &back)
}

func TestDefault(t *testing.T) {
	q := Default()

	require.NoError(t, Validate(q))
	assert.Equal(t, DefaultTitle, q.Title)
	assert.Empty(t, q.ID)
	assert.Len(t, q.IntroSlides, 2)
	require.Equal(t, 8, q.StepCount())

	kinds := make([]puzzle.Kind, 0, len(q.Steps))
	for _, st := range q.Steps {
		kinds = append(kinds, st.MainKind())
	}
	assert.Equal(t, []puzzle.Kind{
		puzzle.KindClosedQuestion,
		puzzle.KindBasketQuestion,
		puzzle.KindClosedQuestion,
		puzzle.KindChainBuilder,
		puzzle.KindPairMatching,
		puzzle.KindLogicMinefield,
		puzzle.KindClosedQuestion,
		puzzle.KindClosedQuestion,
	}, kinds)

	// 8 + 20 + 8 + 30 + 15 + 15 + 8 + 8
	assert.Equal(t, 112, q.MaxPoints())
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Title = "changed"
	a.Steps[0].Name = "changed"

	b := Default()
	assert.Equal(t, DefaultTitle, b.Title)
	assert.NotEqual(t, "changed", b.Steps[0].Name)
}

func TestEndScreenOrDefault(t *testing.T) {
	q := &Sequence{Title: "x"}
	assert.Equal(t, DefaultEndScreen(), q.EndScreenOrDefault())

	q.EndScreen = &Note{Title: "Mine"}
	got := q.EndScreenOrDefault()
	assert.Equal(t, "Mine", got.Title)
	assert.Equal(t, DefaultEndScreen().Text, got.Text)

	q.EndScreen = &Note{Title: "Mine", Text: "Bye"}
	assert.Equal(t, Note{Title: "Mine", Text: "Bye"}, q.EndScreenOrDefault())
}

func TestMaxStepPoints(t *testing.T) {
	q := &Sequence{Steps: []Step{
		NewStep("a", puzzle.KindChainBuilder),
		{Name: "missing main"},
	}}
	assert.Equal(t, 30, q.MaxStepPoints(0))
	assert.Equal(t, 15, q.MaxStepPoints(1))
	assert.Equal(t, 15, q.MaxStepPoints(5))
}

func TestValidate(t *testing.T) {
	q := &Sequence{
		Title:       " ",
		IntroSlides: []IntroSlide{{Type: IntroTypeTag, Text: "ok"}, {Type: IntroTypeTag}},
		Steps: []Step{
			{Name: "no main", SecondChance: NewClosedQuestion()},
			{
				Name:         "bad main",
				Main:         puzzle.ClosedQuestion{Question: "?", Options: []string{"a"}, CorrectIndex: 0},
				SecondChance: puzzle.ClosedQuestion{Question: "?", Options: []string{"a", "b"}, CorrectIndex: 4},
			},
		},
	}

	problems := Problems(Validate(q))
	paths := make([]string, 0, len(problems))
	for _, p := range problems {
		paths = append(paths, p.Path)
	}
	assert.ElementsMatch(t, []string{
		"title",
		"introSlides[1].text",
		"steps[0].main",
		"steps[1].main.options",
		"steps[1].secondChance.correctIndex",
	}, paths)
}

func TestValidate_Nil(t *testing.T) {
	require.Error(t, Validate(nil))
	assert.Nil(t, Problems(nil))
}

func TestNewPuzzle_TemplatesAreValid(t *testing.T) {
	for _, kind := range puzzle.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			p := NewPuzzle(kind)
			assert.Equal(t, kind, p.Kind())
			assert.NoError(t, puzzle.Validate(p))
		})
	}
	assert.Equal(t, puzzle.KindClosedQuestion, NewPuzzle("nope").Kind())
}

func TestStep_EnsureMain(t *testing.T) {
	st := NewStep("s", puzzle.KindClosedQuestion)
	original := st.Main

	st.EnsureMain(puzzle.KindClosedQuestion)
	assert.Equal(t, original, st.Main)

	st.EnsureMain(puzzle.KindPairMatching)
	assert.Equal(t, puzzle.KindPairMatching, st.MainKind())

	var empty Step
	empty.EnsureSecondChance()
	assert.NoError(t, puzzle.Validate(empty.SecondChance))
}

func TestNormalize(t *testing.T) {
	decomposed := "Cafe\u0301"
	composed := "Caf\u00e9"

	q := &Sequence{
		Title:       decomposed,
		IntroSlides: []IntroSlide{{Text: decomposed}},
		Steps: []Step{{
			Name: decomposed,
			Main: puzzle.BasketQuestion{
				Prompt:  decomposed,
				Baskets: []string{decomposed, "b"},
				Items:   []puzzle.BasketItem{{Label: decomposed, CorrectBasketIndex: 1}},
			},
			SecondChance: puzzle.ClosedQuestion{Question: decomposed, Options: []string{decomposed, "x"}},
			Context:      &Note{Text: decomposed},
		}},
		StatsRuns: 3,
	}

	Normalize(q)

	assert.Equal(t, composed, q.Title)
	assert.Equal(t, composed, q.IntroSlides[0].Text)
	assert.Equal(t, composed, q.Steps[0].Name)
	main := q.Steps[0].Main.(puzzle.BasketQuestion)
	assert.Equal(t, composed, main.Prompt)
	assert.Equal(t, composed, main.Baskets[0])
	assert.Equal(t, puzzle.BasketItem{Label: composed, CorrectBasketIndex: 1}, main.Items[0])
	assert.Equal(t, composed, q.Steps[0].SecondChance.Options[0])
	assert.Equal(t, composed, q.Steps[0].Context.Text)
	assert.Nil(t, q.EndScreen)
	assert.Equal(t, 3, q.StatsRuns)
}

func TestDecodeYAML(t *testing.T) {
	doc := []byte(`
title: Short
introSlides:
  - type: intro
    text: Hello.
steps:
  - name: only
    main:
      type: puzzle
      puzzleKind: logicMinefield
      prompt: One is true
      statements: [a, b, c, d]
      correctIndex: 3
    secondChance:
      type: puzzle
      puzzleKind: closedQuestion
      question: Sure?
      options: ["yes", "no"]
      correctIndex: 0
    explanation:
      text: Because.
`)

	q, err := DecodeYAML(doc)
	require.NoError(t, err)
	require.NoError(t, Validate(q))
	assert.Equal(t, "Short", q.Title)
	assert.Equal(t, puzzle.LogicMinefield{Prompt: "One is true", Statements: []string{"a", "b", "c", "d"}, CorrectIndex: 3}, q.Steps[0].Main)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	path := filepath.Join(dir, "nile.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	q, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, q.Title)

	_, err = DecodeFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDecodeDocuments(t *testing.T) {
	one, err := json.Marshal(Default())
	require.NoError(t, err)

	got, err := DecodeDocuments("nile.json", one)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, DefaultTitle, got[0].Title)

	list := append(append([]byte("[\n"), one...), []byte(",\n")...)
	list = append(append(list, one...), ']')
	got, err = DecodeDocuments("library.json", list)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = DecodeDocuments("short.yml", []byte("- title: A\n- title: B\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].Title)

	_, err = DecodeDocuments("broken.json", []byte(`[{"title": 1}]`))
	assert.ErrorContains(t, err, "entry 0")
}
