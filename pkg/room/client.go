package room

import (
	"fmt"

	"blackjack-server/pkg/table"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	tableID  string
	name     string
	bankroll int

	// player is set by the dealer once the join succeeds
	player *table.Player
}

// NewClient returns a new client object for a join request
func NewClient(conn *websocket.Conn, tableID, name string, bankroll int) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string),
		Conn:     conn,
		tableID:  tableID,
		name:     name,
		bankroll: bankroll,
	}
}

// Send sends a message to the web client.
// Returns false if the client's buffer is full.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Player returns the player record, or nil before the join completed
func (c *Client) Player() *table.Player {
	return c.player
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.name, c.tableID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
