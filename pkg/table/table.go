package table

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"blackjack-server/internal/util"
	"blackjack-server/pkg/blackjack"
	"blackjack-server/pkg/deck"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/timebank"
)

const numSpots = 3

// DefaultSettleDelay is how long final hands stay on display before the
// table resets for new bets
const DefaultSettleDelay = time.Second * 5

// Table is a live table session: the roster, the three spots, the shoe, and
// the round machine. All exported methods serialize on the table's lock, so
// commands for one table never interleave; separate tables are fully
// independent.
type Table struct {
	mu sync.Mutex

	id      string
	typ     Type
	rules   blackjack.Rules
	players map[string]*Player
	spots   [numSpots]*Spot
	shoe    *deck.Shoe
	round   *blackjack.Round

	settle          *timebank.TimeBank
	settleDelay     time.Duration
	settleScheduled bool

	// onChange fires when a timer mutates state outside a command, so the
	// room can re-broadcast
	onChange func()

	logger logrus.FieldLogger
}

// New returns a table session for the given type and ruleset
func New(id string, typ Type, rules blackjack.Rules, logger logrus.FieldLogger) *Table {
	t := &Table{
		id:          id,
		typ:         typ,
		rules:       rules,
		players:     make(map[string]*Player),
		shoe:        deck.NewShoe(rules.DeckCount),
		settle:      timebank.NewTimeBank(),
		settleDelay: DefaultSettleDelay,
		logger:      logger.WithField("table", id),
	}

	for i := 0; i < numSpots; i++ {
		t.spots[i] = &Spot{Number: i + 1, Cards: deck.Hand{}}
	}

	t.round = blackjack.NewRound(t.logger, t.shoe, &ledger{table: t}, rules)

	return t
}

// ID returns the table identifier
func (t *Table) ID() string {
	return t.id
}

// Type returns the table's type configuration
func (t *Table) Type() Type {
	return t.typ
}

// Shoe returns the table's shoe. Tests use it to stack cards.
func (t *Table) Shoe() *deck.Shoe {
	return t.shoe
}

// SetSettleDelay overrides the settlement display delay
func (t *Table) SetSettleDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settleDelay = d
}

// SetOnChange registers the hook fired when a timer mutates table state
func (t *Table) SetOnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// AddPlayer creates a player and adds them to the roster.
// A zero bankroll defaults to the table's minimum buy-in; a blank name gets
// a generated one.
func (t *Table) AddPlayer(name string, bankroll int) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.players) >= t.typ.MaxPlayers {
		return nil, ErrTableFull
	}

	if bankroll == 0 {
		bankroll = t.typ.BuyInMin
	}

	if bankroll < t.typ.BuyInMin {
		return nil, fmt.Errorf("%w: minimum buy-in is $%d", ErrBuyInTooLow, t.typ.BuyInMin)
	}

	if name == "" {
		name = util.GetRandomName()
	}

	player := &Player{
		ID:       uuid.New().String(),
		Name:     name,
		Bankroll: bankroll,
		JoinedAt: time.Now(),
	}

	t.players[player.ID] = player
	t.logger.WithFields(logrus.Fields{
		"player":   player.ID,
		"name":     player.Name,
		"bankroll": player.Bankroll,
	}).Debug("player joined")

	return player, nil
}

// RemovePlayer vacates the player's spot, forfeits any pending bet, and
// drops them from the roster. A hand they hold in the current round is stood
// in place so the round cannot stall.
func (t *Table) RemovePlayer(playerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	player, ok := t.players[playerID]
	if !ok {
		return false
	}

	t.round.Retire(playerID)

	if player.Spot > 0 {
		t.clearSpot(player.Spot)
	}

	delete(t.players, playerID)
	t.logger.WithField("player", playerID).Debug("player removed")

	t.afterAction()
	return true
}

// PlayerCount returns the roster size
func (t *Table) PlayerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}

// RoundInProgress returns true unless the table is waiting for bets
func (t *Table) RoundInProgress() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round.InProgress()
}

// Seat assigns the player to a spot, vacating any spot they already hold.
// A player occupies at most one spot at a time.
func (t *Table) Seat(playerID string, spotNumber int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player, ok := t.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}

	if spotNumber < 1 || spotNumber > numSpots {
		return ErrInvalidSpot
	}

	spot := t.spots[spotNumber-1]
	if spot.Occupied {
		return ErrSpotOccupied
	}

	if player.Spot > 0 {
		t.clearSpot(player.Spot)
	}

	spot.Occupied = true
	spot.PlayerID = player.ID
	spot.PlayerName = player.Name
	spot.Cards = deck.Hand{}
	spot.Bet = 0
	spot.Value = 0
	player.Spot = spotNumber

	return nil
}

// PlaceBet records a bet on the player's spot, refunding any bet already
// held there. This is the only path that sets a spot's bet, so the bet
// always equals exactly the bankroll deducted for it.
func (t *Table) PlaceBet(playerID string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player, ok := t.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}

	if player.Spot == 0 {
		return ErrNoSpot
	}

	if amount < t.typ.MinBet {
		return UserError(fmt.Sprintf("minimum bet is $%d", t.typ.MinBet))
	}

	if amount > t.typ.MaxBet {
		return UserError(fmt.Sprintf("maximum bet is $%d", t.typ.MaxBet))
	}

	if amount > player.Bankroll {
		return ErrInsufficientFunds
	}

	if t.round.InProgress() {
		return ErrBetMidRound
	}

	spot := t.spots[player.Spot-1]
	if spot.Bet > 0 {
		player.Bankroll += spot.Bet
	}

	spot.Bet = amount
	player.Bankroll -= amount

	return nil
}

// StartRound collects the active players (occupied spots with a bet, in spot
// order) and runs the initial deal
func (t *Table) StartRound() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	participants := make([]*blackjack.Participant, 0, numSpots)
	for _, spot := range t.spots {
		if spot.Occupied && spot.Bet > 0 {
			participants = append(participants, blackjack.NewParticipant(spot.Number, spot.PlayerID, spot.PlayerName, spot.Bet))
		}
	}

	if err := t.round.Start(participants); err != nil {
		return err
	}

	t.syncSpots()
	t.afterAction()

	return nil
}

// Hit draws one card for the player, who must hold the current turn
func (t *Table) Hit(playerID string) (*deck.Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	card, err := t.round.Hit(playerID)
	if err != nil {
		return nil, err
	}

	t.syncSpots()
	t.afterAction()

	return card, nil
}

// Stand ends the player's turn
func (t *Table) Stand(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.round.Stand(playerID); err != nil {
		return err
	}

	t.syncSpots()
	t.afterAction()

	return nil
}

// Double doubles the player's bet for exactly one more card
func (t *Table) Double(playerID string) (*deck.Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	card, err := t.round.Double(playerID)
	if err != nil {
		return nil, err
	}

	t.syncSpots()
	t.afterAction()

	return card, nil
}

// CurrentTurnPlayerID returns the player whose action the round is waiting
// on, or empty when no player action is pending
func (t *Table) CurrentTurnPlayerID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p := t.round.CurrentTurn(); p != nil {
		return p.PlayerID
	}

	return ""
}

// clearSpot vacates a spot entirely. Lock must be held.
func (t *Table) clearSpot(spotNumber int) {
	spot := t.spots[spotNumber-1]
	*spot = Spot{Number: spotNumber, Cards: deck.Hand{}}
}

// syncSpots mirrors participant hands and bets onto their spots so
// snapshots always reflect the live round. Lock must be held.
func (t *Table) syncSpots() {
	for _, p := range t.round.Participants {
		spot := t.spots[p.SpotNumber-1]
		if spot.PlayerID != p.PlayerID {
			continue
		}

		spot.Cards = p.Hand.Clone()
		spot.Value = p.Value
		spot.Bet = p.Bet
	}
}

// afterAction runs once a command may have finished the round: it clears the
// spots for new bets and schedules the display delay that flips the phase
// back to waiting. Lock must be held.
func (t *Table) afterAction() {
	if t.round.Phase != blackjack.PhaseFinished || t.settleScheduled {
		return
	}

	for _, spot := range t.spots {
		spot.Bet = 0
		spot.Cards = deck.Hand{}
		spot.Value = 0
	}

	t.settleScheduled = true
	_ = t.settle.NewTask(t.settleDelay, func(isCancelled bool) {
		if isCancelled {
			return
		}

		t.mu.Lock()
		t.round.Reset()
		t.settleScheduled = false
		onChange := t.onChange
		t.mu.Unlock()

		if onChange != nil {
			onChange()
		}
	})
}

// ledger implements blackjack.Banker over the table roster.
// The round only runs inside table commands, so the table lock is already
// held when these are called.
type ledger struct {
	table *Table
}

func (l *ledger) Debit(playerID string, amount int) error {
	player, ok := l.table.players[playerID]
	if !ok || player.Bankroll < amount {
		return ErrInsufficientFunds
	}

	player.Bankroll -= amount
	return nil
}

func (l *ledger) Credit(playerID string, amount int) {
	if player, ok := l.table.players[playerID]; ok {
		player.Bankroll += amount
	}
}

// Snapshot is the read-only composite view broadcast to every client
type Snapshot struct {
	TableID       string                    `json:"tableId"`
	Type          string                    `json:"type"`
	Name          string                    `json:"name"`
	MinBet        int                       `json:"minBet"`
	MaxBet        int                       `json:"maxBet"`
	Players       []*Player                 `json:"players"`
	Spots         []*Spot                   `json:"spots"`
	Phase         blackjack.Phase           `json:"phase"`
	Turn          int                       `json:"currentPlayerIndex"`
	ActivePlayers []*blackjack.Participant  `json:"activePlayers"`
	DealerCards   deck.Hand                 `json:"dealerCards"`
	DealerUpCard  *deck.Card                `json:"dealerUpCard,omitempty"`
	DealerValue   int                       `json:"dealerValue"`
	RunningCount  int                       `json:"runningCount"`
	CardsPlayed   int                       `json:"cardsPlayed"`
	CardsLeft     int                       `json:"deckRemaining"`
	Results       map[int]*blackjack.Result `json:"results"`
}

// Snapshot composes the full public state of the table. Hands and bankrolls
// are public in this design; the dealer's second card is hidden only by
// timing, never by filtering.
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		cp := *p
		players = append(players, &cp)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}

		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})

	spots := make([]*Spot, numSpots)
	for i, s := range t.spots {
		cp := *s
		cp.Cards = s.Cards.Clone()
		spots[i] = &cp
	}

	participants := make([]*blackjack.Participant, len(t.round.Participants))
	for i, p := range t.round.Participants {
		cp := *p
		cp.Hand = p.Hand.Clone()
		participants[i] = &cp
	}

	results := make(map[int]*blackjack.Result, len(t.round.Results))
	for spot, result := range t.round.Results {
		cp := *result
		results[spot] = &cp
	}

	return &Snapshot{
		TableID:       t.id,
		Type:          t.typ.Key,
		Name:          t.typ.Name,
		MinBet:        t.typ.MinBet,
		MaxBet:        t.typ.MaxBet,
		Players:       players,
		Spots:         spots,
		Phase:         t.round.Phase,
		Turn:          t.round.Turn(),
		ActivePlayers: participants,
		DealerCards:   t.round.DealerHand.Clone(),
		DealerUpCard:  t.round.DealerHand.FirstCard(),
		DealerValue:   t.round.DealerValue(),
		RunningCount:  t.shoe.RunningCount(),
		CardsPlayed:   t.shoe.CardsPlayed(),
		CardsLeft:     t.shoe.CardsLeft(),
		Results:       results,
	}
}
