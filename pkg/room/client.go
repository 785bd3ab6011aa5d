package room

import (
	"fmt"

	"conga-server/pkg/conga"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a player connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	// ID uniquely identifies this connection
	ID string

	// send is a channel for sending messages to the client
	send chan interface{}

	// owned by the lobby/session run loops
	session *Session
	seat    int
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:  conn,
		Close: make(chan string),
		ID:    uuid.New().String(),
		send:  make(chan interface{}, 256),
		seat:  -1,
	}
}

// Send sends a message to the web client.
// Returns false if the client's buffer is full and the message was dropped.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	return fmt.Sprintf("%s:%d", c.ID, c.seat)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *conga.PayloadIn) {
	session := c.session
	if session == nil {
		logrus.WithField("client", c.String()).Warn("received message, but client is not seated")
		c.Send(conga.NewErrorMessage(ErrNotSeated))
		return
	}

	session.ReceivedMessage(c, msg)
}
