package sequence

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/riddlechain/internal/puzzle"
)

// Normalize rewrites every authored string in q to Unicode NFC so that text
// typed on different platforms compares and persists identically. Stats and
// ids are left alone. Titles are normalised too, which matters for the exact
// default-title match the library performs.
func Normalize(q *Sequence) {
	if q == nil {
		return
	}
	q.Title = nfc(q.Title)
	for i := range q.IntroSlides {
		q.IntroSlides[i].Title = nfc(q.IntroSlides[i].Title)
		q.IntroSlides[i].Text = nfc(q.IntroSlides[i].Text)
	}
	for i := range q.Steps {
		st := &q.Steps[i]
		st.Name = nfc(st.Name)
		st.Main = normalizePuzzle(st.Main)
		st.SecondChance = normalizePuzzle(st.SecondChance).(puzzle.ClosedQuestion)
		normalizeNote(&st.Explanation)
		normalizeNote(st.Context)
	}
	normalizeNote(q.EndScreen)
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func nfcAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = nfc(s)
	}
	return out
}

func normalizeNote(n *Note) {
	if n == nil {
		return
	}
	n.Title = nfc(n.Title)
	n.Text = nfc(n.Text)
}

func normalizePuzzle(p puzzle.Puzzle) puzzle.Puzzle {
	switch v := p.(type) {
	case puzzle.ClosedQuestion:
		v.Question = nfc(v.Question)
		v.Options = nfcAll(v.Options)
		return v
	case puzzle.BasketQuestion:
		v.Prompt = nfc(v.Prompt)
		v.Baskets = nfcAll(v.Baskets)
		if v.Items != nil {
			items := make([]puzzle.BasketItem, len(v.Items))
			for i, item := range v.Items {
				items[i] = puzzle.BasketItem{Label: nfc(item.Label), CorrectBasketIndex: item.CorrectBasketIndex}
			}
			v.Items = items
		}
		return v
	case puzzle.ChainBuilder:
		v.Prompt = nfc(v.Prompt)
		v.Elements = nfcAll(v.Elements)
		return v
	case puzzle.PairMatching:
		v.Prompt = nfc(v.Prompt)
		v.Left = nfcAll(v.Left)
		v.Right = nfcAll(v.Right)
		return v
	case puzzle.LogicMinefield:
		v.Prompt = nfc(v.Prompt)
		v.Statements = nfcAll(v.Statements)
		return v
	default:
		return p
	}
}
