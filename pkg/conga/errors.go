package conga

import "errors"

// ErrNotPlayersTurn is returned when it's not the player's turn
var ErrNotPlayersTurn = errors.New("not player's turn")

// ErrWrongPhase is an error when an action is attempted outside its phase
var ErrWrongPhase = errors.New("action not allowed in the current phase")

// ErrRoundNotStarted is an error when a play is attempted before both players readied up
var ErrRoundNotStarted = errors.New("the round has not started")

// ErrRoundNotOver is an error when ready_next_round arrives mid-round
var ErrRoundNotOver = errors.New("the round is not over")

// ErrCardNotInHand happens when the player references a card they don't hold
var ErrCardNotInHand = errors.New("card is not in player's hand")

// ErrEmptyDiscardPile is an error when drawing from an empty discard pile
var ErrEmptyDiscardPile = errors.New("the discard pile is empty")

// ErrDeckExhausted happens when the deck is empty and the discard pile is too small to reshuffle
var ErrDeckExhausted = errors.New("the deck is exhausted")

// ErrInvalidClose happens when the remaining hand does not meet the close threshold
var ErrInvalidClose = errors.New("hand does not meet the close threshold")

// ErrHandMismatch happens when a reorder does not contain exactly the player's cards
var ErrHandMismatch = errors.New("new hand does not match the current hand")

// ErrGameIsOver is an error when an action is attempted on an ended game
var ErrGameIsOver = errors.New("game is over")

// ErrInvalidSeat is an error for a player index outside 0 or 1
var ErrInvalidSeat = errors.New("invalid seat")
