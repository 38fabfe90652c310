package deck

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card *Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// Value returns the blackjack total of the hand.
// Aces initially count eleven; while the total exceeds 21 and an unreduced
// ace remains, one ace is reduced to a single point.
func (h Hand) Value() int {
	value := 0
	aces := 0

	for _, c := range h {
		if c.Rank == Ace {
			aces++
		}

		value += c.Value()
	}

	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}

	return value
}

// IsBlackjack returns true if the hand is a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust returns true if the hand totals more than 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// FirstCard returns the first card in the hand or nil if the cards are empty
func (h Hand) FirstCard() *Card {
	if len(h) == 0 {
		return nil
	}

	return h[0]
}

// LastCard returns the last card in the hand or nil if the cards are empty
func (h Hand) LastCard() *Card {
	n := len(h)
	if n == 0 {
		return nil
	}

	return h[n-1]
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
