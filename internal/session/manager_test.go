package session

import (
	"sync"
	"testing"
	"time"

	"github.com/punktprzejscia/przejscie/internal/deck"
	"github.com/punktprzejscia/przejscie/internal/questions"
)

// fakeClock runs scheduled callbacks when test code advances simulated time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []fakeTimer
}

type fakeTimer struct {
	at time.Duration
	f  func()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	c.timers = append(c.timers, fakeTimer{at: c.now + d, f: f})
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		idx := -1
		for i, t := range c.timers {
			if t.at <= target && (idx == -1 || t.at < c.timers[idx].at) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}
		t := c.timers[idx]
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		if t.at > c.now {
			c.now = t.at
		}
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// gateProvider blocks question delivery until released.
type gateProvider struct {
	release chan struct{}
}

func (p *gateProvider) QuestionsFor(_ deck.EmotionCard) []string {
	<-p.release
	return []string{"q1", "q2", "q3", "q4"}
}

func testDeck(ids ...string) deck.Deck {
	cards := make([]deck.EmotionCard, len(ids))
	for i, id := range ids {
		cards[i] = deck.EmotionCard{ID: id, Name: id, Question: "q", ImageURL: "img"}
	}
	return deck.Deck{ID: "deck-test", Name: "Test", Cards: cards}
}

func newTestManager(t *testing.T, d deck.Deck, provider questions.Provider) (*Manager, *fakeClock, *Ctx) {
	t.Helper()
	if provider == nil {
		provider = &questions.Static{Delay: 0}
	}
	clock := &fakeClock{}
	m := NewManager(deck.NewCatalog(d), provider)
	m.clock = clock
	s, err := m.CreateSession(d.ID)
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	return m, clock, s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNewManager(t *testing.T) {
	m := NewManager(deck.NewCatalog(deck.BuiltIn()), &questions.Static{Delay: 0})
	if m.sessions == nil {
		t.Fatal("sessions map should be initialized")
	}
}

func TestCreateSession(t *testing.T) {
	m := NewManager(deck.NewCatalog(deck.BuiltIn()), &questions.Static{Delay: 0})

	if _, err := m.CreateSession("nope"); err != deck.ErrDeckNotFound {
		t.Fatalf("expected ErrDeckNotFound for unknown deck, got %v", err)
	}

	// Empty deck id falls back to the built-in deck.
	s, err := m.CreateSession("")
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session id should not be empty")
	}
	if s.Deck.ID != deck.BuiltInDeckID {
		t.Fatalf("expected built-in deck, got %s", s.Deck.ID)
	}

	st := s.State()
	if st.Phase != PhaseIdle {
		t.Fatalf("expected phase %s, got %s", PhaseIdle, st.Phase)
	}
	if st.Card != nil || st.IsFlipped || st.IsDrawing || st.IsLoadingQuestions {
		t.Fatal("fresh session should be idle with no card")
	}

	got, err := m.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("should retrieve created session, got %v, %v", got, err)
	}
	if _, err := m.Get("missing"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDrawFromIdle(t *testing.T) {
	_, clock, s := newTestManager(t, testDeck("a", "b", "c"), nil)

	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted: %v", err)
	}

	st := s.State()
	if !st.IsDrawing {
		t.Fatal("isDrawing should be true right after the draw is accepted")
	}
	if st.Phase != PhaseSelecting {
		t.Fatalf("expected phase %s, got %s", PhaseSelecting, st.Phase)
	}
	if st.Card != nil {
		t.Fatal("no card should be set before the shuffle delay elapses")
	}

	// One tick short of the shuffle delay: still drawing, still no card.
	clock.Advance(ShuffleDelay - time.Millisecond)
	st = s.State()
	if !st.IsDrawing || st.Card != nil {
		t.Fatal("card must not be selected before the full shuffle delay")
	}

	clock.Advance(time.Millisecond)
	st = s.State()
	if st.IsDrawing {
		t.Fatal("isDrawing should be false once a card has been selected")
	}
	if st.Card == nil || !st.IsFlipped || st.Phase != PhaseRevealed {
		t.Fatalf("expected a revealed card, got %+v", st)
	}

	waitFor(t, func() bool {
		st := s.State()
		return !st.IsLoadingQuestions && len(st.Questions) == 4
	})
	for i, q := range s.State().Questions {
		if q == "" {
			t.Fatalf("question %d should not be empty", i)
		}
	}
}

func TestDrawFlipsBackBeforeClearing(t *testing.T) {
	_, clock, s := newTestManager(t, testDeck("a", "b", "c"), nil)

	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted: %v", err)
	}
	clock.Advance(ShuffleDelay)
	waitFor(t, func() bool { return !s.State().IsLoadingQuestions })
	first := s.State().Card
	if first == nil {
		t.Fatal("first draw should reveal a card")
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("second draw should be accepted: %v", err)
	}

	// The card flips face-down immediately but stays set during the flip-back
	// window; questions are cleared right away.
	st := s.State()
	if st.IsFlipped {
		t.Fatal("isFlipped should drop before the card is cleared")
	}
	if st.Phase != PhaseFlippingBack {
		t.Fatalf("expected phase %s, got %s", PhaseFlippingBack, st.Phase)
	}
	if st.Card == nil {
		t.Fatal("card should remain set while flipping back")
	}
	if len(st.Questions) != 0 {
		t.Fatal("questions should be cleared when a new draw starts")
	}

	clock.Advance(FlipBackDelay)
	st = s.State()
	if st.Card != nil {
		t.Fatal("card should be cleared after the flip-back delay")
	}
	if st.Phase != PhaseSelecting {
		t.Fatalf("expected phase %s, got %s", PhaseSelecting, st.Phase)
	}

	// The shuffle delay runs after the flip-back delay, not alongside it.
	clock.Advance(ShuffleDelay - time.Millisecond)
	if s.State().Card != nil {
		t.Fatal("card must stay nil through the shuffle delay")
	}
	clock.Advance(time.Millisecond)
	if s.State().Card == nil {
		t.Fatal("a new card should be revealed after both delays")
	}
}

func TestDrawGuardRejectsOverlap(t *testing.T) {
	_, clock, s := newTestManager(t, testDeck("a", "b", "c"), nil)

	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted: %v", err)
	}
	if err := s.Draw(); err != ErrDrawInProgress {
		t.Fatalf("expected ErrDrawInProgress while drawing, got %v", err)
	}
	before := s.State()
	_ = s.Draw()
	after := s.State()
	if before.Phase != after.Phase || before.IsDrawing != after.IsDrawing {
		t.Fatal("rejected draw must leave state unchanged")
	}
	clock.Advance(ShuffleDelay)
	waitFor(t, func() bool { return !s.State().IsLoadingQuestions })
}

func TestDrawGuardRejectsWhileLoadingQuestions(t *testing.T) {
	gate := &gateProvider{release: make(chan struct{})}
	_, clock, s := newTestManager(t, testDeck("a", "b", "c"), gate)

	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted: %v", err)
	}
	clock.Advance(ShuffleDelay)

	st := s.State()
	if !st.IsLoadingQuestions {
		t.Fatal("questions should be loading after the card is revealed")
	}
	if err := s.Draw(); err != ErrDrawInProgress {
		t.Fatalf("expected ErrDrawInProgress while loading questions, got %v", err)
	}
	if err := s.RegenerateQuestions(); err != ErrDrawInProgress {
		t.Fatalf("expected ErrDrawInProgress for regenerate while loading, got %v", err)
	}

	close(gate.release)
	waitFor(t, func() bool { return !s.State().IsLoadingQuestions })
	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted again once loading finished: %v", err)
	}
}

func TestSingleCardDeck(t *testing.T) {
	_, clock, s := newTestManager(t, testDeck("only"), nil)

	for i := 0; i < 3; i++ {
		if err := s.Draw(); err != nil {
			t.Fatalf("draw %d should be accepted: %v", i, err)
		}
		clock.Advance(FlipBackDelay + ShuffleDelay)
		st := s.State()
		if st.Card == nil || st.Card.ID != "only" {
			t.Fatalf("single-card deck must always return its card, got %+v", st.Card)
		}
		waitFor(t, func() bool { return !s.State().IsLoadingQuestions })
	}
}

func TestPickResampleBounded(t *testing.T) {
	m, _, s := newTestManager(t, testDeck("a", "b"), nil)

	// Rigged sampler that always lands on the previous card: one initial pick
	// plus five resamples, then the duplicate is accepted.
	calls := 0
	m.intn = func(n int) int {
		calls++
		return 0
	}
	card := s.pick("a")
	if card.ID != "a" {
		t.Fatalf("duplicate should be accepted after bounded retries, got %s", card.ID)
	}
	if calls != 1+maxResampleAttempts {
		t.Fatalf("expected %d samples, got %d", 1+maxResampleAttempts, calls)
	}

	// First non-duplicate stops the resampling early.
	seq := []int{0, 0, 1}
	calls = 0
	m.intn = func(n int) int {
		v := seq[calls]
		calls++
		return v
	}
	card = s.pick("a")
	if card.ID != "b" {
		t.Fatalf("expected resample to land on b, got %s", card.ID)
	}
	if calls != 3 {
		t.Fatalf("expected 3 samples, got %d", calls)
	}

	// No previous card: a single sample, no resampling.
	calls = 0
	m.intn = func(n int) int {
		calls++
		return 0
	}
	_ = s.pick("")
	if calls != 1 {
		t.Fatalf("expected 1 sample without a previous card, got %d", calls)
	}
}

func TestStaleQuestionFetchDiscarded(t *testing.T) {
	_, _, s := newTestManager(t, testDeck("a", "b"), nil)

	cardA := s.Deck.Cards[0]
	cardB := s.Deck.Cards[1]

	s.mu.Lock()
	s.currentCard = &cardB
	s.fetchSeq = 2
	s.isLoadingQuestions = true
	s.mu.Unlock()

	// A fetch issued for an older sequence (or a different card) must not
	// apply its result.
	s.fetchQuestions(cardA, 1)
	st := s.State()
	if len(st.Questions) != 0 {
		t.Fatal("stale fetch result must be discarded")
	}
	if !st.IsLoadingQuestions {
		t.Fatal("stale fetch must not clear the loading flag")
	}

	// The current fetch applies normally.
	s.fetchQuestions(cardB, 2)
	st = s.State()
	if len(st.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(st.Questions))
	}
	if st.IsLoadingQuestions {
		t.Fatal("loading flag should clear when the current fetch lands")
	}
}

func TestRegenerateQuestions(t *testing.T) {
	_, clock, s := newTestManager(t, testDeck("a", "b", "c"), nil)

	if err := s.RegenerateQuestions(); err != ErrNoCardRevealed {
		t.Fatalf("expected ErrNoCardRevealed without a card, got %v", err)
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("draw should be accepted: %v", err)
	}
	clock.Advance(ShuffleDelay)
	waitFor(t, func() bool { return !s.State().IsLoadingQuestions })

	if err := s.RegenerateQuestions(); err != nil {
		t.Fatalf("regenerate should be accepted: %v", err)
	}
	waitFor(t, func() bool {
		st := s.State()
		return !st.IsLoadingQuestions && len(st.Questions) == 4
	})
}
