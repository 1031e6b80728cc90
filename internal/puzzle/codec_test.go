package puzzle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KnownKinds(t *testing.T) {
	for _, p := range []Puzzle{closedQ(), basketQ(), chainQ(), pairQ(), mineQ()} {
		t.Run(string(p.Kind()), func(t *testing.T) {
			data, err := Encode(p)
			require.NoError(t, err)

			var env map[string]any
			require.NoError(t, json.Unmarshal(data, &env))
			assert.Equal(t, "puzzle", env["type"])
			assert.Equal(t, string(p.Kind()), env["puzzleKind"])

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestDecode_ClosedQuestionWireShape(t *testing.T) {
	data := []byte(`{"type":"puzzle","puzzleKind":"closedQuestion","question":"Rhythm?","options":["A) flood","B) private"],"correctIndex":0}`)

	p, err := Decode(data)
	require.NoError(t, err)

	cq, ok := p.(ClosedQuestion)
	require.True(t, ok, "expected ClosedQuestion, got %T", p)
	assert.Equal(t, "Rhythm?", cq.Question)
	assert.Equal(t, []string{"A) flood", "B) private"}, cq.Options)
	assert.Equal(t, 0, cq.CorrectIndex)

	out, err := json.Marshal(cq)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
}

func TestDecode_UnknownKindRoundTrips(t *testing.T) {
	data := []byte(`{"type":"puzzle","puzzleKind":"wordSearch","grid":["abc"]}`)

	p, err := Decode(data)
	require.NoError(t, err)

	u, ok := p.(Unknown)
	require.True(t, ok)
	assert.Equal(t, Kind("wordSearch"), u.Kind())
	assert.False(t, u.Kind().Known())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
}

func TestDecode_MissingKind(t *testing.T) {
	p, err := Decode([]byte(`{"question":"?"}`))
	require.NoError(t, err)
	assert.IsType(t, Unknown{}, p)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"puzzleKind":"closedQuestion","options":"not-a-list"}`))
	assert.Error(t, err)
}
