package table

import (
	"time"

	"blackjack-server/pkg/deck"
)

// Player is a participant seated at (or observing) a table.
// Bankroll only changes through bet placement, bet refunds, and round
// settlement. Spot is 0 while the player holds no spot.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Bankroll int       `json:"bankroll"`
	Spot     int       `json:"currentSpot"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Spot is one of the three independently bettable seats at a table.
// Cards and Value mirror the active participant's hand during a round so
// snapshots always show the live state.
type Spot struct {
	Number     int       `json:"number"`
	Occupied   bool      `json:"occupied"`
	PlayerID   string    `json:"playerId,omitempty"`
	PlayerName string    `json:"playerName,omitempty"`
	Cards      deck.Hand `json:"cards"`
	Bet        int       `json:"bet"`
	Value      int       `json:"value"`
}
