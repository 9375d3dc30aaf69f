package session

import (
	"time"

	"github.com/punktprzejscia/przejscie/internal/deck"
)

type Phase string

const (
	PhaseIdle         Phase = "Idle"
	PhaseFlippingBack Phase = "FlippingBack"
	PhaseSelecting    Phase = "Selecting"
	PhaseRevealed     Phase = "Revealed"
)

// Draw-sequence timings. FlipBackDelay covers the flip-back animation of a
// face-up card; ShuffleDelay is the shuffle pause before selection. Both are
// scheduled continuations, never busy waits.
const (
	FlipBackDelay = 600 * time.Millisecond
	ShuffleDelay  = 800 * time.Millisecond
)

// State is an immutable snapshot of a session's draw state, safe to hand to
// the API and socket layers.
type State struct {
	Phase              Phase             `json:"phase"`
	Card               *deck.EmotionCard `json:"card"`
	IsFlipped          bool              `json:"isFlipped"`
	IsDrawing          bool              `json:"isDrawing"`
	Questions          []string          `json:"questions"`
	IsLoadingQuestions bool              `json:"isLoadingQuestions"`
}

// Record is one completed draw-and-reflect episode kept in history.
type Record struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	DeckName  string           `json:"deckName"`
	Card      deck.EmotionCard `json:"card"`
	Questions []string         `json:"questions"`
	Notes     string           `json:"notes"`
}

// Clock schedules the draw-sequence delays. Production uses time.AfterFunc;
// tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
