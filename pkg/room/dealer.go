package room

import (
	"sync"
	"time"

	"blackjack-server/pkg/table"

	"github.com/sirupsen/logrus"
)

// joinedState is the payload of a successful joinResult
type joinedState struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
	Name     string `json:"name"`
	Bankroll int    `json:"bankroll"`
}

// playerActed is broadcast after a successful round action
type playerActed struct {
	Action   string      `json:"action"`
	PlayerID string      `json:"playerId"`
	Card     interface{} `json:"card,omitempty"`
}

// Dealer runs a single live table. Every command and broadcast for the table
// goes through its run loop, so the table's state is never mutated from two
// commands at once; separate tables have separate dealers.
type Dealer struct {
	pitBoss *PitBoss
	info    *table.Info
	table   *table.Table
	clients map[*Client]bool
	lock    sync.RWMutex
	logger  logrus.FieldLogger

	execInRunLoop chan func()
	stateChanged  chan struct{}
	close         chan bool
}

// NewDealer creates a new dealer and its table session
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, info *table.Info) *Dealer {
	d := &Dealer{
		pitBoss:       pitBoss,
		info:          info,
		clients:       make(map[*Client]bool),
		logger:        logrus.WithField("table", info.ID),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan struct{}, 256),
		close:         make(chan bool),
	}

	d.table = table.New(info.ID, info.Config, pitBoss.registry.Rules(), logrus.StandardLogger())
	if pitBoss.settleDelay > 0 {
		d.table.SetSettleDelay(pitBoss.settleDelay)
	}

	// timers (the settlement display delay) re-broadcast through the run loop
	d.table.SetOnChange(func() {
		select {
		case d.stateChanged <- struct{}{}:
		default:
		}
	})

	return d
}

// Table returns the dealer's table session
func (d *Dealer) Table() *table.Table {
	return d.table
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case <-d.stateChanged:
			d.broadcastState()
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client and completes their join
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		player, err := d.table.AddPlayer(client.name, client.bankroll)
		if err != nil {
			client.Send(newErrorResult("joinResult", "", err))

			select {
			case client.Close <- "join rejected":
			default:
			}
			return
		}

		client.player = player
		d.pitBoss.registry.SetPlayerCount(d.info.ID, d.table.PlayerCount())

		client.Send(&Response{
			Key: "joinResult",
			Data: &joinedState{
				PlayerID: player.ID,
				TableID:  d.info.ID,
				Name:     player.Name,
				Bankroll: player.Bankroll,
			},
		})

		d.broadcastState()
	}
}

// RemoveClient removes a client, treating the disconnect as an implicit
// leave: the player is dropped from the table and any pending bet forfeits.
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	// the removal happens here, not on the run loop: when this was the last
	// client the run loop is about to end its shift, and the registry still
	// needs the occupancy update that starts the idle-expiry countdown
	if client.player != nil {
		d.table.RemovePlayer(client.player.ID)
		d.pitBoss.registry.SetPlayerCount(d.info.ID, d.table.PlayerCount())
	}

	if nClients > 0 {
		select {
		case d.stateChanged <- struct{}{}:
		default:
		}
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	start := time.Now()
	d.execInRunLoop <- func() {
		d.handleMessage(c, msg)

		if mon := d.pitBoss.monitor; mon != nil {
			mon.IncCommands()
			mon.ObserveCommandLatency(time.Since(start))
		}
	}
}

// handleMessage must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *PayloadIn) {
	if c.player == nil {
		c.Send(newErrorResponse(msg.Context, table.ErrUnknownPlayer))
		return
	}

	switch msg.Action {
	case "seat":
		spot, _ := msg.AdditionalData.GetInt("spot")
		if err := d.table.Seat(c.player.ID, spot); err != nil {
			c.Send(newErrorResult("seatResult", msg.Context, err))
			return
		}

		c.Send(newResult("seatResult", msg.Context))
		d.broadcastState()
	case "bet":
		amount, _ := msg.AdditionalData.GetInt("amount")
		if err := d.table.PlaceBet(c.player.ID, amount); err != nil {
			c.Send(newErrorResult("betResult", msg.Context, err))
			return
		}

		c.Send(newResult("betResult", msg.Context))
		d.broadcastState()
	case "startRound":
		if err := d.table.StartRound(); err != nil {
			c.Send(newErrorResult("actionResult", msg.Context, err))
			return
		}

		if mon := d.pitBoss.monitor; mon != nil {
			mon.IncRounds()
		}

		d.broadcast(&Response{Key: "roundStarted"})
		d.broadcastState()
	case "hit":
		card, err := d.table.Hit(c.player.ID)
		if err != nil {
			c.Send(newErrorResult("actionResult", msg.Context, err))
			return
		}

		d.broadcast(&Response{Key: "playerActed", Data: &playerActed{Action: "hit", PlayerID: c.player.ID, Card: card}})
		d.broadcastState()
	case "stand":
		if err := d.table.Stand(c.player.ID); err != nil {
			c.Send(newErrorResult("actionResult", msg.Context, err))
			return
		}

		d.broadcast(&Response{Key: "playerActed", Data: &playerActed{Action: "stand", PlayerID: c.player.ID}})
		d.broadcastState()
	case "double":
		card, err := d.table.Double(c.player.ID)
		if err != nil {
			c.Send(newErrorResult("actionResult", msg.Context, err))
			return
		}

		d.broadcast(&Response{Key: "playerActed", Data: &playerActed{Action: "double", PlayerID: c.player.ID, Card: card}})
		d.broadcastState()
	default:
		d.logger.WithField("action", msg.Action).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, table.UserError("unknown action")))
	}
}

// broadcastState sends the full table snapshot to every connected client and
// keeps the registry's round flag current
// NOTE: must only be called from the run loop
func (d *Dealer) broadcastState() {
	d.pitBoss.registry.SetRoundInProgress(d.info.ID, d.table.RoundInProgress())

	snapshot := d.table.Snapshot()
	d.broadcast(&Response{Key: "tableStateUpdate", Data: snapshot})
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(msg *Response) {
	for _, client := range d.Clients() {
		if !client.Send(msg) {
			d.logger.WithField("client", client.String()).Warn("client send buffer full, dropping message")
		}
	}
}
