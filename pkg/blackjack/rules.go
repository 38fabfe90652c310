package blackjack

// Rules fixes the single ruleset the engine plays.
// BlackjackPayout is the total returned per unit bet on a natural, so 2.5
// means the original bet plus three-to-two profit.
type Rules struct {
	DeckCount       int     `json:"deckCount" yaml:"deckCount"`
	Penetration     float64 `json:"penetration" yaml:"penetration"`
	DealerStand     int     `json:"dealerStand" yaml:"dealerStand"`
	BlackjackPayout float64 `json:"blackjackPayout" yaml:"blackjackPayout"`
}

// DefaultRules returns the standard six-deck ruleset
func DefaultRules() Rules {
	return Rules{
		DeckCount:       6,
		Penetration:     0.75,
		DealerStand:     17,
		BlackjackPayout: 2.5,
	}
}
