package deck

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrDeckEmpty    = errors.New("deck has no cards")
	ErrDeckExists   = errors.New("deck id already registered")
	ErrBuiltInDeck  = errors.New("built-in decks cannot be removed")
)

// Intensity is an optional card attribute. It is carried on the record but not
// consulted by the draw flow.
type Intensity string

const (
	IntensityLow    Intensity = "Niska"
	IntensityMedium Intensity = "Średnia"
	IntensityHigh   Intensity = "Wysoka"
)

// EmotionCard is an immutable card record. Description feeds the image
// generation prompt; Question is the single fixed prompt shown on the card face.
type EmotionCard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Question    string    `json:"question"`
	ImageURL    string    `json:"imageUrl"`
	Intensity   Intensity `json:"intensity,omitempty"`
}

// Deck is a named, ordered collection of emotion cards.
type Deck struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Cards       []EmotionCard `json:"cards"`
	IsCustom    bool          `json:"isCustom"`
}

// CardInput is one row of a deck-authoring form. Rows with any empty field are
// skipped when building the deck.
type CardInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Question    string `json:"question"`
}

// NewCustom builds a user-authored deck from form rows. Image URLs use the
// same prompt template as the built-in cards with a random seed per card, so
// the artwork stays constant for the card's lifetime. At least one fully
// filled row is required.
func NewCustom(name, description string, rows []CardInput, seed func() int) (Deck, error) {
	if strings.TrimSpace(name) == "" {
		return Deck{}, errors.New("deck name is required")
	}
	if description == "" {
		description = "Talia użytkownika"
	}
	cards := make([]EmotionCard, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" || r.Description == "" || r.Question == "" {
			continue
		}
		cards = append(cards, EmotionCard{
			ID:          "custom-" + uuid.NewString(),
			Name:        r.Name,
			Description: r.Description,
			Question:    r.Question,
			ImageURL:    generateURL(cardPrompt(r.Name, r.Description), seed()),
		})
	}
	if len(cards) == 0 {
		return Deck{}, ErrDeckEmpty
	}
	return Deck{
		ID:          "deck-custom-" + uuid.NewString(),
		Name:        name,
		Description: description,
		Cards:       cards,
		IsCustom:    true,
	}, nil
}

// Catalog holds the decks offered for drawing. Built-in decks are registered
// at startup; custom decks come and go through the authoring flow.
type Catalog struct {
	mu    sync.RWMutex
	decks []Deck
}

func NewCatalog(decks ...Deck) *Catalog {
	c := &Catalog{}
	c.decks = append(c.decks, decks...)
	return c
}

func (c *Catalog) List() []Deck {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Deck, len(c.decks))
	copy(out, c.decks)
	return out
}

func (c *Catalog) Get(id string) (Deck, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.decks {
		if d.ID == id {
			return d, nil
		}
	}
	return Deck{}, ErrDeckNotFound
}

// Add registers a deck. Decks with no cards are rejected; an empty deck must
// never be offered for drawing. Ids are unique across the catalog, so a new
// deck can never shadow an existing one in Get.
func (c *Catalog) Add(d Deck) error {
	if len(d.Cards) == 0 {
		return ErrDeckEmpty
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.decks {
		if existing.ID == d.ID {
			return ErrDeckExists
		}
	}
	c.decks = append(c.decks, d)
	return nil
}

// Remove deletes a custom deck by id.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.decks {
		if d.ID != id {
			continue
		}
		if !d.IsCustom {
			return ErrBuiltInDeck
		}
		c.decks = append(c.decks[:i], c.decks[i+1:]...)
		return nil
	}
	return ErrDeckNotFound
}
