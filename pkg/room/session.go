package room

import (
	"time"

	"conga-server/internal/jwt"
	"conga-server/pkg/conga"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is a paired two-player game. All game state is owned by the
// session's run loop; outside callers only post work onto the exec channel,
// so a draw and a discard can never interleave across goroutines.
type Session struct {
	// ID identifies the session in rejoin tokens
	ID string

	lobby   *Lobby
	game    *conga.Game
	clients [2]*Client

	// forfeitTimers hold a vacated seat open until the grace period expires
	forfeitTimers [2]*time.Timer
	grace         time.Duration

	exec  chan func()
	close chan bool

	logger logrus.FieldLogger
}

func newSession(lobby *Lobby, opts conga.Options, grace time.Duration, logger logrus.FieldLogger) *Session {
	id := uuid.New().String()
	sessionLogger := logger.WithField("session", id)

	return &Session{
		ID:     id,
		lobby:  lobby,
		game:   conga.NewGame(sessionLogger, opts),
		grace:  grace,
		exec:   make(chan func(), 256),
		close:  make(chan bool),
		logger: sessionLogger,
	}
}

// StartShift starts the run loop
func (s *Session) StartShift() {
	go s.runLoop()
}

// EndShift is called when the session is no longer needed
func (s *Session) EndShift() {
	close(s.close)
}

func (s *Session) runLoop() {
	s.logger.Debug("creating session run loop")
	for {
		select {
		case fn := <-s.exec:
			fn()
		case <-s.close:
			s.logger.Debug("terminating session run loop")
			return
		}
	}
}

// ReceivedMessage is called when a client sends a message to the server.
// This method must return quickly.
func (s *Session) ReceivedMessage(c *Client, msg *conga.PayloadIn) {
	s.exec <- func() {
		s.handleAction(c, msg)
	}
}

// Rejoin attempts to reattach a client to a vacated seat.
// This method must return quickly.
func (s *Session) Rejoin(c *Client, seat int) {
	s.exec <- func() {
		if s.clients[seat] != nil {
			c.Send(conga.NewErrorMessage(ErrSeatTaken))
			c.Close <- "seat occupied"
			return
		}

		if timer := s.forfeitTimers[seat]; timer != nil {
			timer.Stop()
			s.forfeitTimers[seat] = nil
		}

		s.seat(c, seat)

		s.logger.WithField("client", c.String()).Info("client rejoined")

		// catch the rejoining client up
		c.Send(s.game.StateFor(seat))
		if result := s.game.LastResult(); result != nil {
			c.Send(result)
		}
	}
}

// ClientDisconnected is called when a seated client goes away.
// This method must return quickly.
func (s *Session) ClientDisconnected(c *Client) {
	s.exec <- func() {
		seat := c.seat
		if seat < 0 || seat > 1 || s.clients[seat] != c {
			return
		}

		s.clients[seat] = nil
		s.logger.WithField("client", c.String()).Info("client disconnected")

		if s.game.IsGameOver() {
			s.retireIfEmpty()
			return
		}

		// hold the seat open; forfeit if the player doesn't come back
		s.forfeitTimers[seat] = time.AfterFunc(s.grace, func() {
			s.exec <- func() {
				s.forfeitSeat(seat)
			}
		})
	}
}

// seatClients is called once by the lobby after pairing two waiting clients.
// This method must return quickly.
func (s *Session) seatClients(p0, p1 *Client) {
	s.exec <- func() {
		s.seat(p0, 0)
		s.seat(p1, 1)
		s.broadcastState()
	}
}

// NOTE: must only be called from the run loop
func (s *Session) seat(c *Client, seatIdx int) {
	c.session = s
	c.seat = seatIdx
	s.clients[seatIdx] = c

	signed, err := jwt.Sign(s.ID, seatIdx)
	if err != nil {
		s.logger.WithError(err).Error("could not sign rejoin token")
		return
	}

	c.Send(newRejoinTokenMessage(signed))
}

// NOTE: must only be called from the run loop
func (s *Session) handleAction(c *Client, msg *conga.PayloadIn) {
	var err error
	var result *conga.RoundResult

	switch msg.Action {
	case "draw_deck":
		_, err = s.game.DrawDeck(c.seat)
	case "draw_discard":
		_, err = s.game.DrawDiscard(c.seat)
	case "discard":
		if msg.Card == nil || !msg.Card.IsValid() {
			err = ErrMalformedMessage
			break
		}

		err = s.game.Discard(c.seat, *msg.Card)
	case "close":
		if msg.Card == nil || !msg.Card.IsValid() {
			err = ErrMalformedMessage
			break
		}

		result, err = s.game.Close(c.seat, *msg.Card)
	case "reorder":
		if err = s.game.Reorder(c.seat, msg.NewHand); err == nil {
			// only the acting player's view changes
			c.Send(s.game.StateFor(c.seat))
			return
		}
	case "ready_next_round":
		_, err = s.game.Ready(c.seat)
	default:
		err = ErrUnknownAction
	}

	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"client": c.String(),
			"action": msg.Action,
		}).Debug("action rejected")

		c.Send(conga.NewErrorMessage(err))
		return
	}

	s.broadcastState()

	if result != nil {
		s.broadcast(result)
	}
}

// NOTE: must only be called from the run loop
func (s *Session) forfeitSeat(seat int) {
	if s.clients[seat] != nil || s.game.IsGameOver() {
		return
	}

	s.forfeitTimers[seat] = nil

	result, err := s.game.Forfeit(seat)
	if err != nil {
		s.logger.WithError(err).Error("could not forfeit")
		return
	}

	s.broadcast(result)
	s.retireIfEmpty()
}

// NOTE: must only be called from the run loop
func (s *Session) retireIfEmpty() {
	if s.clients[0] == nil && s.clients[1] == nil {
		s.lobby.retireSession(s)
	}
}

// NOTE: must only be called from the run loop
func (s *Session) broadcastState() {
	for seat, client := range s.clients {
		if client == nil {
			continue
		}

		client.Send(s.game.StateFor(seat))
	}

	// effects are one-shot; drop after the broadcast that carried them
	s.game.TakeEffect()
}

// NOTE: must only be called from the run loop
func (s *Session) broadcast(msg interface{}) {
	for _, client := range s.clients {
		if client == nil {
			continue
		}

		client.Send(msg)
	}
}
