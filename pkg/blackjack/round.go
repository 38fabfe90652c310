package blackjack

import (
	"errors"
	"math"

	"blackjack-server/pkg/deck"

	"github.com/sirupsen/logrus"
)

// round errors returned to the acting player
var (
	ErrRoundInProgress = errors.New("round already in progress")
	ErrNoBets          = errors.New("no bets to start the round")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrCannotDouble    = errors.New("you can no longer double down")
)

// Phase is the stage the round is in
type Phase string

// Phase constants
const (
	// PhaseWaiting is between rounds; bets may be placed
	PhaseWaiting Phase = "WAITING"

	// PhaseDealing is while the initial cards go out
	PhaseDealing Phase = "DEALING"

	// PhasePlaying is while the participants act in spot order
	PhasePlaying Phase = "PLAYING"

	// PhaseDealerTurn is while the dealer draws
	PhaseDealerTurn Phase = "DEALER_TURN"

	// PhaseFinished is after settlement, before the table resets
	PhaseFinished Phase = "FINISHED"
)

// Status is the state of a participant's hand
type Status string

// Status constants
const (
	StatusPlaying   Status = "PLAYING"
	StatusStand     Status = "STAND"
	StatusBust      Status = "BUST"
	StatusBlackjack Status = "BLACKJACK"
)

// Outcome is how a hand settled
type Outcome string

// Outcome constants
const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBust      Outcome = "BUST"
	OutcomeBlackjack Outcome = "BLACKJACK"
)

// Result is the settlement for a single spot.
// Payout is the total amount returned to the player, including the bet on a
// win or push.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Payout  int     `json:"payout"`
}

// Participant is an active hand in the round, captured from a bet-placed spot
// at round start
type Participant struct {
	SpotNumber int       `json:"spotNumber"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Hand       deck.Hand `json:"cards"`
	Bet        int       `json:"bet"`
	Value      int       `json:"value"`
	Status     Status    `json:"status"`
	CanDouble  bool      `json:"canDouble"`
}

// NewParticipant returns a participant ready for the initial deal
func NewParticipant(spotNumber int, playerID, playerName string, bet int) *Participant {
	return &Participant{
		SpotNumber: spotNumber,
		PlayerID:   playerID,
		PlayerName: playerName,
		Hand:       deck.Hand{},
		Bet:        bet,
		Status:     StatusPlaying,
		CanDouble:  true,
	}
}

// Banker adjusts player bankrolls on behalf of the round.
// The owning table implements it; the round never touches table internals
// directly.
type Banker interface {
	// Debit removes amount from the player's bankroll, failing without
	// mutation if the bankroll is insufficient
	Debit(playerID string, amount int) error

	// Credit adds amount to the player's bankroll
	Credit(playerID string, amount int)
}

// Round advances a table through a single round of blackjack: dealing,
// player turns, the dealer's turn, and settlement
type Round struct {
	Phase        Phase           `json:"phase"`
	Participants []*Participant  `json:"activePlayers"`
	DealerHand   deck.Hand       `json:"dealerCards"`
	Results      map[int]*Result `json:"results"`

	turnIndex int
	shoe      *deck.Shoe
	banker    Banker
	rules     Rules
	logger    logrus.FieldLogger
}

// NewRound returns a round in the waiting phase
func NewRound(logger logrus.FieldLogger, shoe *deck.Shoe, banker Banker, rules Rules) *Round {
	return &Round{
		Phase:   PhaseWaiting,
		Results: make(map[int]*Result),
		shoe:    shoe,
		banker:  banker,
		rules:   rules,
		logger:  logger,
	}
}

// InProgress returns true unless the round is waiting for bets
func (r *Round) InProgress() bool {
	return r.Phase != PhaseWaiting
}

// Turn returns the index of the current participant
func (r *Round) Turn() int {
	return r.turnIndex
}

// DealerValue returns the dealer's current hand value
func (r *Round) DealerValue() int {
	return r.DealerHand.Value()
}

// Start captures the participants and runs the initial deal.
// The penetration check happens before any card goes out, so a round never
// begins on a critically depleted shoe.
func (r *Round) Start(participants []*Participant) error {
	if r.Phase != PhaseWaiting {
		return ErrRoundInProgress
	}

	if len(participants) == 0 {
		return ErrNoBets
	}

	if r.shoe.Penetration() > r.rules.Penetration {
		r.logger.WithField("penetration", r.shoe.Penetration()).Debug("reshuffling shoe")
		r.shoe.Reset(0)
	}

	r.Phase = PhaseDealing
	r.Participants = participants
	r.DealerHand = deck.Hand{}
	r.Results = make(map[int]*Result)
	r.turnIndex = 0

	// two cards each, round-robin, then the dealer's up card
	for i := 0; i < 2; i++ {
		for _, p := range r.Participants {
			p.Hand.AddCard(r.shoe.Draw())
			p.Value = p.Hand.Value()
		}
	}

	r.DealerHand.AddCard(r.shoe.Draw())

	r.checkNaturals()

	if r.Phase == PhaseDealing {
		r.Phase = PhasePlaying
		r.findNextPlayer()
	}

	return nil
}

// checkNaturals resolves two-card 21s. If any participant has one, the
// dealer's second card comes out immediately; this is the only path that
// reveals it before all player turns complete.
func (r *Round) checkNaturals() {
	hasNatural := false
	for _, p := range r.Participants {
		if p.Hand.IsBlackjack() {
			p.Status = StatusBlackjack
			hasNatural = true
		}
	}

	if !hasNatural {
		return
	}

	r.DealerHand.AddCard(r.shoe.Draw())
	dealerBlackjack := r.DealerHand.Value() == 21

	allNatural := true
	for _, p := range r.Participants {
		if p.Status != StatusBlackjack {
			allNatural = false
			continue
		}

		if dealerBlackjack {
			r.Results[p.SpotNumber] = &Result{Outcome: OutcomePush, Payout: p.Bet}
		} else {
			payout := int(math.Round(float64(p.Bet) * r.rules.BlackjackPayout))
			r.Results[p.SpotNumber] = &Result{Outcome: OutcomeBlackjack, Payout: payout}
		}
	}

	if allNatural {
		r.Phase = PhaseFinished
		r.settle()
	}
}

// CurrentTurn returns the participant whose turn it is, or nil if no player
// action is pending
func (r *Round) CurrentTurn() *Participant {
	if r.Phase != PhasePlaying || r.turnIndex >= len(r.Participants) {
		return nil
	}

	return r.Participants[r.turnIndex]
}

func (r *Round) requireTurn(playerID string) (*Participant, error) {
	p := r.CurrentTurn()
	if p == nil || p.PlayerID != playerID {
		return nil, ErrNotYourTurn
	}

	return p, nil
}

// Hit deals one card to the current participant
func (r *Round) Hit(playerID string) (*deck.Card, error) {
	p, err := r.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	p.Hand.AddCard(r.shoe.Draw())
	p.Value = p.Hand.Value()
	p.CanDouble = false

	if p.Value > 21 {
		p.Status = StatusBust
		r.Results[p.SpotNumber] = &Result{Outcome: OutcomeBust, Payout: 0}
		r.nextPlayer()
	}

	return p.Hand.LastCard(), nil
}

// Stand ends the current participant's turn
func (r *Round) Stand(playerID string) error {
	p, err := r.requireTurn(playerID)
	if err != nil {
		return err
	}

	p.Status = StatusStand
	r.nextPlayer()

	return nil
}

// Double doubles the participant's bet, deals exactly one card, and ends the
// turn. Only legal before any other action on the hand.
func (r *Round) Double(playerID string) (*deck.Card, error) {
	p, err := r.requireTurn(playerID)
	if err != nil {
		return nil, err
	}

	if !p.CanDouble {
		return nil, ErrCannotDouble
	}

	if err := r.banker.Debit(p.PlayerID, p.Bet); err != nil {
		return nil, err
	}

	p.Bet *= 2

	p.Hand.AddCard(r.shoe.Draw())
	p.Value = p.Hand.Value()
	p.CanDouble = false

	if p.Value > 21 {
		p.Status = StatusBust
		r.Results[p.SpotNumber] = &Result{Outcome: OutcomeBust, Payout: 0}
	} else {
		p.Status = StatusStand
	}

	r.nextPlayer()

	return p.Hand.LastCard(), nil
}

// Retire stands a participant in place when their player leaves mid-round,
// so the turn scan can never stall on an absent player
func (r *Round) Retire(playerID string) {
	if r.Phase != PhasePlaying {
		return
	}

	for _, p := range r.Participants {
		if p.PlayerID != playerID || p.Status != StatusPlaying {
			continue
		}

		p.Status = StatusStand
		r.logger.WithField("playerId", playerID).Debug("standing hand for departed player")
	}

	r.findNextPlayer()
}

func (r *Round) nextPlayer() {
	r.turnIndex++
	r.findNextPlayer()
}

// findNextPlayer scans forward for the next participant still playing; when
// none remain the dealer plays out automatically
func (r *Round) findNextPlayer() {
	if r.Phase != PhasePlaying {
		return
	}

	for r.turnIndex < len(r.Participants) {
		if r.Participants[r.turnIndex].Status == StatusPlaying {
			return
		}

		r.turnIndex++
	}

	r.Phase = PhaseDealerTurn
	r.playDealer()
}

// playDealer draws the hole card if it was never forced out, then hits to the
// stand threshold. This ruleset does not special-case a soft 17.
func (r *Round) playDealer() {
	if len(r.DealerHand) == 1 {
		r.DealerHand.AddCard(r.shoe.Draw())
	}

	for r.DealerHand.Value() < r.rules.DealerStand {
		r.DealerHand.AddCard(r.shoe.Draw())
	}

	r.Phase = PhaseFinished
	r.settle()
}

// settle resolves every participant not already resolved and credits all
// payouts through the banker
func (r *Round) settle() {
	dealerValue := r.DealerHand.Value()
	dealerBust := dealerValue > 21

	for _, p := range r.Participants {
		if _, done := r.Results[p.SpotNumber]; done {
			continue
		}

		switch {
		case dealerBust || p.Value > dealerValue:
			r.Results[p.SpotNumber] = &Result{Outcome: OutcomeWin, Payout: p.Bet * 2}
		case p.Value == dealerValue:
			r.Results[p.SpotNumber] = &Result{Outcome: OutcomePush, Payout: p.Bet}
		default:
			r.Results[p.SpotNumber] = &Result{Outcome: OutcomeLose, Payout: 0}
		}
	}

	for _, p := range r.Participants {
		result, ok := r.Results[p.SpotNumber]
		if !ok || result.Payout == 0 {
			continue
		}

		r.banker.Credit(p.PlayerID, result.Payout)
	}

	r.logger.WithFields(logrus.Fields{
		"dealerValue": dealerValue,
		"results":     len(r.Results),
	}).Debug("round settled")
}

// Reset returns the round to the waiting phase. The finished hands and
// results stay visible until the next round starts.
func (r *Round) Reset() {
	r.Phase = PhaseWaiting
}
