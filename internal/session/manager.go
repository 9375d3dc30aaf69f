package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/punktprzejscia/przejscie/internal/deck"
	"github.com/punktprzejscia/przejscie/internal/questions"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDrawInProgress  = errors.New("draw already in progress")
	ErrNoCardRevealed  = errors.New("no card revealed")
)

// maxResampleAttempts bounds duplicate avoidance when drawing. After five
// failed resamples the duplicate is accepted; the bound is intentional and
// must not be replaced with guaranteed-distinct sampling.
const maxResampleAttempts = 5

// Manager owns the draw sessions. One Ctx per connected reflection session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Ctx

	catalog  *deck.Catalog
	provider questions.Provider
	clock    Clock
	intn     func(int) int
	notify   func(sessionID string, st State)
}

func NewManager(catalog *deck.Catalog, provider questions.Provider) *Manager {
	return &Manager{
		sessions: make(map[string]*Ctx),
		catalog:  catalog,
		provider: provider,
		clock:    realClock{},
		intn:     rand.Intn,
	}
}

// SetNotify installs the callback invoked with a fresh snapshot after every
// state transition. Used by the socket bridge.
func (m *Manager) SetNotify(fn func(sessionID string, st State)) {
	m.notify = fn
}

func (m *Manager) CreateSession(deckID string) (*Ctx, error) {
	if deckID == "" {
		deckID = deck.BuiltInDeckID
	}
	d, err := m.catalog.Get(deckID)
	if err != nil {
		return nil, err
	}
	s := &Ctx{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Deck:      d,
		m:         m,
		phase:     PhaseIdle,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(id string) (*Ctx, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sessions[id]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Ctx is one draw session: the active deck plus the transient draw state.
type Ctx struct {
	ID        string
	CreatedAt time.Time
	Deck      deck.Deck

	m *Manager

	mu                 sync.Mutex
	phase              Phase
	currentCard        *deck.EmotionCard
	isFlipped          bool
	isDrawing          bool
	questions          []string
	isLoadingQuestions bool
	fetchSeq           int
}

func (s *Ctx) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Ctx) stateLocked() State {
	st := State{
		Phase:              s.phase,
		IsFlipped:          s.isFlipped,
		IsDrawing:          s.isDrawing,
		IsLoadingQuestions: s.isLoadingQuestions,
	}
	if s.currentCard != nil {
		c := *s.currentCard
		st.Card = &c
	}
	st.Questions = make([]string, len(s.questions))
	copy(st.Questions, s.questions)
	return st
}

// Draw starts the draw sequence. The guard below is the authoritative gate
// against double draws; disabling controls in the UI is cosmetic only. A draw
// once accepted always completes to Revealed.
func (s *Ctx) Draw() error {
	s.mu.Lock()
	if s.isDrawing || s.isLoadingQuestions {
		s.mu.Unlock()
		return ErrDrawInProgress
	}
	s.isDrawing = true
	prevID := ""
	if s.currentCard != nil {
		prevID = s.currentCard.ID
	}
	s.questions = nil
	if s.isFlipped {
		// Flip the card face-down first; the shown card is cleared only after
		// the flip-back animation window has passed.
		s.isFlipped = false
		s.phase = PhaseFlippingBack
		s.mu.Unlock()
		s.publish()
		s.m.clock.AfterFunc(FlipBackDelay, func() {
			s.mu.Lock()
			s.currentCard = nil
			s.phase = PhaseSelecting
			s.mu.Unlock()
			s.publish()
			s.m.clock.AfterFunc(ShuffleDelay, func() { s.finishDraw(prevID) })
		})
		return nil
	}
	s.currentCard = nil
	s.phase = PhaseSelecting
	s.mu.Unlock()
	s.publish()
	s.m.clock.AfterFunc(ShuffleDelay, func() { s.finishDraw(prevID) })
	return nil
}

func (s *Ctx) finishDraw(prevID string) {
	card := s.pick(prevID)
	s.mu.Lock()
	c := card
	s.currentCard = &c
	s.isFlipped = true
	s.isDrawing = false
	s.phase = PhaseRevealed
	s.fetchSeq++
	seq := s.fetchSeq
	s.isLoadingQuestions = true
	s.mu.Unlock()
	s.publish()
	go s.fetchQuestions(card, seq)
}

// pick selects a uniformly random card, resampling a repeat of the previous
// card at most maxResampleAttempts times.
func (s *Ctx) pick(prevID string) deck.EmotionCard {
	cards := s.Deck.Cards
	card := cards[s.m.intn(len(cards))]
	if prevID != "" && len(cards) > 1 {
		for attempts := 0; card.ID == prevID && attempts < maxResampleAttempts; attempts++ {
			card = cards[s.m.intn(len(cards))]
		}
	}
	return card
}

func (s *Ctx) fetchQuestions(card deck.EmotionCard, seq int) {
	qs := s.m.provider.QuestionsFor(card)
	s.mu.Lock()
	if seq != s.fetchSeq || s.currentCard == nil || s.currentCard.ID != card.ID {
		// A newer draw superseded this fetch; drop the stale result.
		s.mu.Unlock()
		return
	}
	s.questions = qs
	s.isLoadingQuestions = false
	s.mu.Unlock()
	s.publish()
}

// RegenerateQuestions re-requests the question list for the revealed card.
func (s *Ctx) RegenerateQuestions() error {
	s.mu.Lock()
	if s.isDrawing || s.isLoadingQuestions {
		s.mu.Unlock()
		return ErrDrawInProgress
	}
	if s.currentCard == nil {
		s.mu.Unlock()
		return ErrNoCardRevealed
	}
	card := *s.currentCard
	s.fetchSeq++
	seq := s.fetchSeq
	s.isLoadingQuestions = true
	s.mu.Unlock()
	s.publish()
	go s.fetchQuestions(card, seq)
	return nil
}

func (s *Ctx) publish() {
	if s.m.notify == nil {
		return
	}
	s.m.notify(s.ID, s.State())
}
