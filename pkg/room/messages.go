package room

import "errors"

// ErrNotSeated is returned for actions from a client that isn't paired yet
var ErrNotSeated = errors.New("you are not seated at a game")

// ErrSeatTaken is returned when a rejoin targets an occupied seat
var ErrSeatTaken = errors.New("seat is already occupied")

// ErrUnknownAction is returned for an unrecognized action
var ErrUnknownAction = errors.New("unknown action")

// ErrMalformedMessage is returned when a payload is missing required fields
var ErrMalformedMessage = errors.New("malformed message")

// rejoinTokenMessage carries the signed token a client can present to
// reclaim its seat after a disconnect
type rejoinTokenMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

func newRejoinTokenMessage(token string) *rejoinTokenMessage {
	return &rejoinTokenMessage{
		Type:  "rejoin_token",
		Token: token,
	}
}
