package room

import (
	"time"

	"conga-server/internal/jwt"
	"conga-server/pkg/conga"

	"github.com/sirupsen/logrus"
)

// connectRequest carries a fresh websocket client into the lobby run loop
type connectRequest struct {
	client *Client

	// room pins a private room; empty means the public queue
	room string

	// token is an optional rejoin token
	token string
}

// Lobby pairs waiting clients two-by-two into sessions and routes rejoins.
// Sessions are fully independent of one another; the lobby only owns the
// waiting queues and the session registry.
type Lobby struct {
	opts  conga.Options
	grace time.Duration

	waiting  map[string][]*Client
	sessions map[string]*Session

	connect    chan connectRequest
	disconnect chan *Client
	retire     chan *Session

	logger logrus.FieldLogger
}

// NewLobby returns a new lobby
func NewLobby(opts conga.Options, grace time.Duration, logger logrus.FieldLogger) *Lobby {
	return &Lobby{
		opts:       opts,
		grace:      grace,
		waiting:    make(map[string][]*Client),
		sessions:   make(map[string]*Session),
		connect:    make(chan connectRequest, 256),
		disconnect: make(chan *Client, 256),
		retire:     make(chan *Session, 256),
		logger:     logger,
	}
}

// StartShift starts the lobby run loop
func (l *Lobby) StartShift() {
	go l.runLoop()
}

func (l *Lobby) runLoop() {
	for {
		select {
		case req := <-l.connect:
			l.handleConnect(req)
		case client := <-l.disconnect:
			l.handleDisconnect(client)
		case session := <-l.retire:
			l.logger.WithField("session", session.ID).Debug("retiring session")
			delete(l.sessions, session.ID)
			session.EndShift()
		}
	}
}

// ClientConnected is called when a client connects to the server
func (l *Lobby) ClientConnected(client *Client, room, token string) {
	l.connect <- connectRequest{client: client, room: room, token: token}
}

// ClientDisconnected is called when a client disconnects from the server
func (l *Lobby) ClientDisconnected(client *Client) {
	l.disconnect <- client
}

// retireSession is called by a session that has finished.
// Safe to call from any goroutine.
func (l *Lobby) retireSession(s *Session) {
	l.retire <- s
}

// NOTE: must only be called from the run loop
func (l *Lobby) handleConnect(req connectRequest) {
	log := l.logger.WithField("client", req.client.ID)

	if req.token != "" {
		sessionID, seat, err := jwt.ValidSeat(req.token)
		if err == nil {
			if session, found := l.sessions[sessionID]; found {
				session.Rejoin(req.client, seat)
				return
			}
		}

		log.WithError(err).Debug("rejoin token did not match a live session")
	}

	queue := append(l.waiting[req.room], req.client)
	if len(queue) < 2 {
		l.waiting[req.room] = queue
		log.WithField("room", req.room).Debug("client waiting for an opponent")
		return
	}

	p0, p1 := queue[0], queue[1]
	l.waiting[req.room] = queue[2:]

	session := newSession(l, l.opts, l.grace, l.logger)
	l.sessions[session.ID] = session
	session.StartShift()
	session.seatClients(p0, p1)

	log.WithFields(logrus.Fields{
		"session": session.ID,
		"room":    req.room,
	}).Info("paired players into a session")
}

// NOTE: must only be called from the run loop
func (l *Lobby) handleDisconnect(client *Client) {
	if session := client.session; session != nil {
		session.ClientDisconnected(client)
		return
	}

	// still in a waiting queue
	for room, queue := range l.waiting {
		for i, c := range queue {
			if c == client {
				l.waiting[room] = append(queue[:i:i], queue[i+1:]...)
				if len(l.waiting[room]) == 0 {
					delete(l.waiting, room)
				}
				return
			}
		}
	}
}
