package blackjack

import (
	"errors"
	"testing"

	"blackjack-server/pkg/deck"
	"blackjack-server/pkg/snapshot"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type testBanker struct {
	bankrolls map[string]int
	debitErr  error
}

func (b *testBanker) Debit(playerID string, amount int) error {
	if b.debitErr != nil {
		return b.debitErr
	}

	b.bankrolls[playerID] -= amount
	return nil
}

func (b *testBanker) Credit(playerID string, amount int) {
	b.bankrolls[playerID] += amount
}

func newTestBanker() *testBanker {
	return &testBanker{bankrolls: make(map[string]int)}
}

// stackedRound returns a round whose shoe deals the given cards in order
func stackedRound(banker Banker, cards string) *Round {
	shoe := deck.NewShoe(1)
	shoe.SetSeed(1)
	shoe.Cards = deck.CardsFromString(cards)

	return NewRound(logrus.StandardLogger(), shoe, banker, DefaultRules())
}

func TestRound_Start_errors(t *testing.T) {
	round := stackedRound(newTestBanker(), "10c,5h,9d,7c,10s")

	assert.Equal(t, ErrNoBets, round.Start([]*Participant{}))
	assert.False(t, round.InProgress())

	p := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p}))
	assert.True(t, round.InProgress())

	assert.Equal(t, ErrRoundInProgress, round.Start([]*Participant{p}))
}

func TestRound_Start_reshufflesDepletedShoe(t *testing.T) {
	shoe := deck.NewShoe(1)
	shoe.Reset(42)

	// 40 of 52 cards puts the shoe past the 0.75 threshold
	for i := 0; i < 40; i++ {
		shoe.Draw()
	}

	assert.True(t, shoe.Penetration() > 0.75)

	round := NewRound(logrus.StandardLogger(), shoe, newTestBanker(), DefaultRules())
	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	// the rebuild happened before any card went out, so only the initial
	// deal counts as played
	assert.Equal(t, len(p1.Hand)+len(round.DealerHand), shoe.CardsPlayed())
	assert.Equal(t, 52, shoe.CardsLeft()+shoe.CardsPlayed())
}

func TestRound_Start_keepsShoeBelowThreshold(t *testing.T) {
	shoe := deck.NewShoe(1)
	shoe.Reset(42)

	for i := 0; i < 10; i++ {
		shoe.Draw()
	}

	round := NewRound(logrus.StandardLogger(), shoe, newTestBanker(), DefaultRules())
	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	assert.Equal(t, 10+len(p1.Hand)+len(round.DealerHand), shoe.CardsPlayed())
}

func TestRound_Start_dealOrder(t *testing.T) {
	round := stackedRound(newTestBanker(), "10c,9d,5h,7s,10h")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 15)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))

	// round-robin: one card each, then the second, then the dealer's up card
	assert.Equal(t, "10c,5h", p1.Hand.String())
	assert.Equal(t, "9d,7s", p2.Hand.String())
	assert.Equal(t, "10h", round.DealerHand.String())

	assert.Equal(t, PhasePlaying, round.Phase)
	assert.Equal(t, p1, round.CurrentTurn())
	assert.Equal(t, 15, p1.Value)
	assert.Equal(t, 16, p2.Value)
}

func TestRound_bustAndDealerStand(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "10c,9d,5h,7s,10h,10d,7c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 15)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))

	card, err := round.Hit("p1")
	assert.NoError(t, err)
	assert.Equal(t, "10d", deck.CardToString(card))
	assert.Equal(t, StatusBust, p1.Status)
	assert.Equal(t, &Result{Outcome: OutcomeBust, Payout: 0}, round.Results[1])

	// bust advances the turn
	assert.Equal(t, p2, round.CurrentTurn())

	assert.NoError(t, round.Stand("p2"))

	// hole card makes 17; the dealer stands and the 16 loses
	assert.Equal(t, PhaseFinished, round.Phase)
	assert.Equal(t, 17, round.DealerValue())
	assert.Equal(t, &Result{Outcome: OutcomeLose, Payout: 0}, round.Results[2])
	assert.Equal(t, 0, banker.bankrolls["p1"])
	assert.Equal(t, 0, banker.bankrolls["p2"])
}

func TestRound_dealerBust(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "10c,10h,9d,5c,10s")

	p1 := NewParticipant(1, "p1", "alpha", 20)
	assert.NoError(t, round.Start([]*Participant{p1}))
	assert.NoError(t, round.Stand("p1"))

	assert.Equal(t, PhaseFinished, round.Phase)
	assert.True(t, round.DealerHand.IsBust())
	assert.Equal(t, &Result{Outcome: OutcomeWin, Payout: 40}, round.Results[1])
	assert.Equal(t, 40, banker.bankrolls["p1"])
}

func TestRound_push(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "10c,8d,10h,8h")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))
	assert.NoError(t, round.Stand("p1"))

	assert.Equal(t, 18, round.DealerValue())
	assert.Equal(t, &Result{Outcome: OutcomePush, Payout: 10}, round.Results[1])
	assert.Equal(t, 10, banker.bankrolls["p1"])
}

func TestRound_natural(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "14c,10c,13d,6d,9h,7h,10s")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 10)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))

	// the natural forces the dealer's second card out immediately
	assert.Equal(t, StatusBlackjack, p1.Status)
	assert.Equal(t, 2, len(round.DealerHand))
	assert.Equal(t, 16, round.DealerValue())
	assert.Equal(t, &Result{Outcome: OutcomeBlackjack, Payout: 25}, round.Results[1])

	// play continues for the other hand
	assert.Equal(t, PhasePlaying, round.Phase)
	assert.Equal(t, p2, round.CurrentTurn())

	assert.NoError(t, round.Stand("p2"))

	assert.Equal(t, PhaseFinished, round.Phase)
	assert.True(t, round.DealerHand.IsBust())
	assert.Equal(t, &Result{Outcome: OutcomeWin, Payout: 20}, round.Results[2])
	assert.Equal(t, 25, banker.bankrolls["p1"])
	assert.Equal(t, 20, banker.bankrolls["p2"])
}

func TestRound_naturalVersusDealerNatural(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "14c,13d,14h,10s")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	// both naturals push and the round is over before any turn
	assert.Equal(t, PhaseFinished, round.Phase)
	assert.Equal(t, 21, round.DealerValue())
	assert.Equal(t, &Result{Outcome: OutcomePush, Payout: 10}, round.Results[1])
	assert.Equal(t, 10, banker.bankrolls["p1"])
}

func TestRound_double(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "5c,6d,9h,10c,8c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	card, err := round.Double("p1")
	assert.NoError(t, err)
	assert.Equal(t, "10c", deck.CardToString(card))
	assert.Equal(t, 20, p1.Bet)
	assert.Equal(t, 21, p1.Value)

	assert.Equal(t, PhaseFinished, round.Phase)
	assert.Equal(t, 17, round.DealerValue())
	assert.Equal(t, &Result{Outcome: OutcomeWin, Payout: 40}, round.Results[1])

	// debited the second bet, credited the doubled win
	assert.Equal(t, 30, banker.bankrolls["p1"])
}

func TestRound_double_afterHit(t *testing.T) {
	round := stackedRound(newTestBanker(), "5c,6d,9h,2c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	_, err := round.Hit("p1")
	assert.NoError(t, err)

	_, err = round.Double("p1")
	assert.Equal(t, ErrCannotDouble, err)
}

func TestRound_double_insufficientFunds(t *testing.T) {
	banker := newTestBanker()
	banker.debitErr = errors.New("insufficient funds")
	round := stackedRound(banker, "5c,6d,9h,10c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))

	_, err := round.Double("p1")
	assert.Equal(t, banker.debitErr, err)

	// the hand is untouched and it is still the player's turn
	assert.Equal(t, 10, p1.Bet)
	assert.Equal(t, 2, len(p1.Hand))
	assert.Equal(t, p1, round.CurrentTurn())
}

func TestRound_outOfTurn(t *testing.T) {
	round := stackedRound(newTestBanker(), "10c,9d,5h,7s,10h")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 10)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))

	_, err := round.Hit("p2")
	assert.Equal(t, ErrNotYourTurn, err)

	assert.Equal(t, ErrNotYourTurn, round.Stand("nobody"))

	_, err = round.Double("p2")
	assert.Equal(t, ErrNotYourTurn, err)
}

func TestRound_retire(t *testing.T) {
	round := stackedRound(newTestBanker(), "10c,9d,5h,7s,10h,7c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 10)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))

	round.Retire("p1")

	assert.Equal(t, StatusStand, p1.Status)
	assert.Equal(t, p2, round.CurrentTurn())

	// retiring the last live hand plays the dealer out
	round.Retire("p2")
	assert.Equal(t, PhaseFinished, round.Phase)
}

func TestRound_state(t *testing.T) {
	banker := newTestBanker()
	round := stackedRound(banker, "10c,9d,5h,7s,10h,10d,7c")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	p2 := NewParticipant(2, "p2", "bravo", 15)
	assert.NoError(t, round.Start([]*Participant{p1, p2}))
	snapshot.Validate(t, round)

	_, err := round.Hit("p1")
	assert.NoError(t, err)
	snapshot.Validate(t, round)

	assert.NoError(t, round.Stand("p2"))
	snapshot.Validate(t, round)
}

func TestRound_Reset(t *testing.T) {
	round := stackedRound(newTestBanker(), "10c,8d,10h,8h")

	p1 := NewParticipant(1, "p1", "alpha", 10)
	assert.NoError(t, round.Start([]*Participant{p1}))
	assert.NoError(t, round.Stand("p1"))
	assert.Equal(t, PhaseFinished, round.Phase)

	round.Reset()

	// hands and results stay visible until the next deal
	assert.Equal(t, PhaseWaiting, round.Phase)
	assert.False(t, round.InProgress())
	assert.Equal(t, 1, len(round.Results))
	assert.Equal(t, 2, len(p1.Hand))
}
