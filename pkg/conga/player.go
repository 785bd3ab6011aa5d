package conga

import "conga-server/pkg/deck"

// Player is one of the two seats in a game
type Player struct {
	hand        deck.Hand
	roundPoints int
	totalScore  int
	ready       bool
}

// Hand returns a copy of the player's hand
func (p *Player) Hand() deck.Hand {
	return p.hand.Clone()
}

// TotalScore returns the player's accumulated penalty points
func (p *Player) TotalScore() int {
	return p.totalScore
}
