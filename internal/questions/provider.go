package questions

import (
	"time"

	"github.com/punktprzejscia/przejscie/internal/deck"
)

// Provider returns the ordered reflection prompts for a drawn card. It must
// always succeed; there is no error path.
type Provider interface {
	QuestionsFor(card deck.EmotionCard) []string
}

// The universal prompt sequence for metaphor cards. Order matters: the
// prompts build on each other (observation, feeling, present relevance,
// next step) and must be returned exactly as listed.
var universal = []string{
	"Co widzisz na obrazku? Opisz to, co dostrzegasz na pierwszym planie i w tle, bez interpretowania. Jakie kolory i kształty przyciągają Twoją uwagę?",
	"Co czujesz patrząc na tę kartę? Jakie emocje pojawiają się w Twoim ciele? Czy obraz budzi w Tobie spokój, napięcie, czy może coś innego?",
	"W jaki sposób ten obraz odnosi się do Twojej obecnej sytuacji życiowej? Czy dostrzegasz tu jakąś metaforę tego, co dzieje się teraz u Ciebie?",
	"Jaka jest dla Ciebie wskazówka płynąca z tej karty? Jaki jeden mały krok możesz wykonać, aby zadbać o siebie w tym obszarze?",
}

// DefaultDelay paces the question reveal for UX consistency. It is not a real
// computation.
const DefaultDelay = 300 * time.Millisecond

// Static serves the universal prompt list regardless of the drawn card. The
// per-card Question field stays on the card face; this list is deliberately
// deck-independent.
type Static struct {
	Delay time.Duration
}

func NewStatic() *Static {
	return &Static{Delay: DefaultDelay}
}

func (p *Static) QuestionsFor(_ deck.EmotionCard) []string {
	if p.Delay > 0 {
		time.Sleep(p.Delay)
	}
	out := make([]string, len(universal))
	copy(out, universal)
	return out
}
