package room

import (
	"time"

	"blackjack-server/internal/monitor"
	"blackjack-server/pkg/table"

	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to tables.
// It owns the two process-scoped registries: the dealer-by-table map and,
// through the table registry, the table descriptors. Both are only touched
// from its run loop.
type PitBoss struct {
	registry    *table.Registry
	monitor     *monitor.Monitor
	settleDelay time.Duration
	dealers     map[string]*Dealer
	connect     chan *Client
	disconnect  chan *Client
}

// NewPitBoss returns a new dispatch object. The monitor may be nil.
func NewPitBoss(registry *table.Registry, mon *monitor.Monitor) *PitBoss {
	return &PitBoss{
		registry:   registry,
		monitor:    mon,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// Registry returns the table registry
func (p *PitBoss) Registry() *table.Registry {
	return p.registry
}

// SetSettleDelay overrides the settlement display delay for new tables
func (p *PitBoss) SetSettleDelay(d time.Duration) {
	p.settleDelay = d
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("client", client.String()).Debug("client connected")

			dealer, found := p.dealers[client.tableID]
			if !found {
				info := p.registry.GetOrCreate(client.tableID)
				dealer = NewDealer(p, info)
				dealer.StartShift()
				p.dealers[client.tableID] = dealer
			}

			dealer.AddClient(client)

			if p.monitor != nil {
				p.monitor.IncClients()
				p.monitor.SetActiveTables(p.registry.Count())
			}
		case client := <-p.disconnect:
			logrus.WithField("client", client.String()).Debug("client disconnected")

			dealer, found := p.dealers[client.tableID]
			if !found {
				logrus.WithField("table", client.tableID).Error("table not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.tableID)
			}

			if p.monitor != nil {
				p.monitor.DecClients()
				p.monitor.SetActiveTables(p.registry.Count())
			}
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
