package room

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
// The client ID doubles as the player ID once the client joins the table.
type Client struct {
	// ID is unique to the connection
	ID string

	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// closeReason receives the reason once the server decides to drop the client
	closeReason chan string
	closeOnce   sync.Once

	dealer *Dealer
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:          uuid.New().String(),
		send:        make(chan interface{}, 256),
		closeReason: make(chan string, 1),
		Conn:        conn,
	}
}

// Send sends a message to the web client
// If the client is not keeping up, the message is dropped and false is returned
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("client send buffer is full, dropping message")
		return false
	}
}

// Disconnect asks the connection to close with the reason
// Only the first call has any effect.
func (c *Client) Disconnect(reason string) {
	c.closeOnce.Do(func() {
		c.closeReason <- reason
	})
}

// CloseChan returns a channel that receives the reason the server is dropping the client
func (c *Client) CloseChan() <-chan string {
	return c.closeReason
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	remote := "-"
	if c.Conn != nil {
		remote = c.Conn.RemoteAddr().String()
	}

	return fmt.Sprintf("%s:%s", c.ID, remote)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
