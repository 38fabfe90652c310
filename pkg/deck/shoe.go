package deck

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultDeckCount is the number of decks in a standard shoe
const DefaultDeckCount = 6

// Shoe is a multi-deck source of cards.
// It keeps a Hi-Lo running count and a cards-played counter so the table can
// decide when penetration requires a reshuffle.
type Shoe struct {
	Cards []*Card `json:"cards"`

	deckCount    int
	cardsPlayed  int
	runningCount int
	seed         int64
	rng          *rand.Rand
}

// NewShoe returns a shuffled shoe built from deckCount standard decks
func NewShoe(deckCount int) *Shoe {
	if deckCount <= 0 {
		deckCount = DefaultDeckCount
	}

	s := &Shoe{
		deckCount: deckCount,
		seed:      -1,
	}

	s.Reset(0)
	return s
}

// SetSeed will set the seed
// This should only be used by tests. Setting the seed is normally handled when you call Reset()
func (s *Shoe) SetSeed(seed int64) {
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))
}

func (s *Shoe) build() {
	cards := make([]*Card, 0, s.deckCount*52)
	for d := 0; d < s.deckCount; d++ {
		for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
			for rank := 2; rank <= Ace; rank++ {
				card := &Card{
					Rank: rank,
					Suit: suit,
				}
				card.ID = fmt.Sprintf("%s#%d", CardToString(card), d+1)
				cards = append(cards, card)
			}
		}
	}

	s.Cards = cards
}

// Reset rebuilds the full shoe, shuffles it, and zeroes the cards-played and
// running-count accumulators.
// You can manually specify the seed, or you can leave it as 0 for a time-based seed.
func (s *Shoe) Reset(seed int64) {
	if seed < 0 {
		panic("seed cannot be < 0")
	}

	s.build()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s.SetSeed(seed)

	for j := len(s.Cards) - 1; j > 0; j-- {
		i := s.rng.Intn(j + 1)

		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	}

	s.cardsPlayed = 0
	s.runningCount = 0
}

// GetSeed returns the seed used to shuffle the shoe
func (s *Shoe) GetSeed() int64 {
	return s.seed
}

// Draw returns the next card from the shoe.
// An exhausted shoe rebuilds and reshuffles itself before drawing, so Draw
// never fails. This safety net is independent of the penetration-based
// reshuffle applied at round start.
func (s *Shoe) Draw() *Card {
	if len(s.Cards) == 0 {
		s.Reset(0)
	}

	card := s.Cards[0]
	s.Cards = s.Cards[1:]

	s.cardsPlayed++
	s.runningCount += card.HiLo()

	return card
}

// CardsLeft returns the number of cards left in the shoe
func (s *Shoe) CardsLeft() int {
	return len(s.Cards)
}

// CardsPlayed returns the number of cards drawn since the last reshuffle
func (s *Shoe) CardsPlayed() int {
	return s.cardsPlayed
}

// RunningCount returns the Hi-Lo running count since the last reshuffle
func (s *Shoe) RunningCount() int {
	return s.runningCount
}

// DeckCount returns the number of decks the shoe is built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// Penetration returns the fraction of the shoe drawn since the last reshuffle
func (s *Shoe) Penetration() float64 {
	return float64(s.cardsPlayed) / float64(s.deckCount*52)
}
