package conga

import "conga-server/pkg/deck"

// message type constants
const (
	TypeRoundOver = "round_over"
	TypeGameOver  = "game_over"
	TypeError     = "error"
)

// EffectRussia signals a discard draw that immediately completed a meld
const EffectRussia = "russia"

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action  string      `json:"action"`
	Card    *deck.Card  `json:"card,omitempty"`
	NewHand []deck.Card `json:"new_hand,omitempty"`
}

// ClientState is the per-player view of the game, broadcast after every
// successful action. It never contains the opponent's cards.
type ClientState struct {
	GameStarted bool        `json:"game_started"`
	PlayerIdx   int         `json:"p_idx"`
	Turn        int         `json:"turn"`
	Hand        []deck.Card `json:"hand"`
	OppCount    int         `json:"opp_count"`
	TopDiscard  *deck.Card  `json:"top_discard"`
	DeckCount   int         `json:"deck_count"`
	Scores      [2]int      `json:"scores"`
	Effect      string      `json:"effect,omitempty"`
}

// RevealedHand is a player's full hand shown to both clients after a close
type RevealedHand struct {
	Cards    []deck.Card `json:"cards"`
	Melds    []Meld      `json:"melds"`
	Leftover []deck.Card `json:"leftover"`
	Points   int         `json:"points"`
}

// RoundResult is broadcast to both clients when a round (or the game) ends
type RoundResult struct {
	Type        string          `json:"type"`
	Winner      int             `json:"winner"`
	TotalScores [2]int          `json:"total_scores"`
	P0Points    int             `json:"p0_points"`
	P1Points    int             `json:"p1_points"`
	HandsAtEnd  [2]RevealedHand `json:"hands_at_end"`
}

// ErrorMessage is sent when an action fails validation; the connection stays open
type ErrorMessage struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// NewErrorMessage wraps an error for the wire
func NewErrorMessage(err error) *ErrorMessage {
	return &ErrorMessage{
		Type: TypeError,
		Msg:  err.Error(),
	}
}
