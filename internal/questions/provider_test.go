package questions

import (
	"testing"

	"github.com/punktprzejscia/przejscie/internal/deck"
)

func TestStaticProviderReturnsFourPrompts(t *testing.T) {
	p := &Static{Delay: 0}
	qs := p.QuestionsFor(deck.EmotionCard{ID: "e1", Name: "Bezsilność"})
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}
	for i, q := range qs {
		if q == "" {
			t.Fatalf("question %d should not be empty", i)
		}
	}
}

func TestStaticProviderIsDeckIndependent(t *testing.T) {
	p := &Static{Delay: 0}
	a := p.QuestionsFor(deck.EmotionCard{ID: "e1", Name: "Bezsilność"})
	b := p.QuestionsFor(deck.EmotionCard{ID: "e55", Name: "Żal"})
	if len(a) != len(b) {
		t.Fatalf("question count should not depend on the card: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("question %d should be identical for every card", i)
		}
	}
}

func TestStaticProviderPreservesOrder(t *testing.T) {
	p := &Static{Delay: 0}
	qs := p.QuestionsFor(deck.EmotionCard{ID: "e1"})
	for i, q := range qs {
		if q != universal[i] {
			t.Fatalf("question %d out of order", i)
		}
	}

	// Returned slice is a copy; callers must not be able to mutate the
	// canonical sequence.
	qs[0] = "changed"
	again := p.QuestionsFor(deck.EmotionCard{ID: "e1"})
	if again[0] != universal[0] {
		t.Fatal("provider must return a fresh copy each call")
	}
}
