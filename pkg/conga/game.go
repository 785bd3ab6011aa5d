package conga

import (
	"github.com/sirupsen/logrus"

	"conga-server/pkg/deck"
)

// Phase is a state of the turn state machine
type Phase int

// phase constants. Actions are only valid in their phase; anything else is
// rejected without touching state.
const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingDraw
	PhaseAwaitingDiscardOrClose
	PhaseRoundClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseAwaitingDraw:
		return "awaiting-draw"
	case PhaseAwaitingDiscardOrClose:
		return "awaiting-discard-or-close"
	case PhaseRoundClosed:
		return "round-closed"
	}

	return "unknown"
}

// HandSize is the number of cards dealt to each player
const HandSize = 7

// Options configure a game
type Options struct {
	// CloseThreshold is the maximum leftover value permitted to close
	CloseThreshold int

	// TargetScore ends the game when a player's total reaches it
	TargetScore int
}

// DefaultOptions returns the standard rule constants
func DefaultOptions() Options {
	return Options{
		CloseThreshold: 5,
		TargetScore:    100,
	}
}

// Game is a two-player game of Conga. It owns the deck, the discard pile,
// both hands and the cumulative scores, and enforces the turn state machine.
// Game is not safe for concurrent use; the session run loop is the single
// writer.
type Game struct {
	opts    Options
	deck    *deck.Deck
	discard deck.Hand // top of the pile is the last element
	players [2]*Player
	turn    int
	phase   Phase
	// closedBy is the seat that closed the current round, -1 when none
	closedBy int
	// roundNo alternates the opening turn between seats
	roundNo int
	// effect is a one-shot flag surfaced to clients on the next broadcast
	effect     string
	lastResult *RoundResult
	gameOver   bool

	logger logrus.FieldLogger

	// testSeed makes round deals deterministic. Only tests set this.
	testSeed int64
}

// NewGame returns a new game waiting for both players to ready up
func NewGame(logger logrus.FieldLogger, opts Options) *Game {
	if opts.CloseThreshold == 0 {
		opts.CloseThreshold = DefaultOptions().CloseThreshold
	}

	if opts.TargetScore == 0 {
		opts.TargetScore = DefaultOptions().TargetScore
	}

	return &Game{
		opts:     opts,
		players:  [2]*Player{{}, {}},
		phase:    PhaseNotStarted,
		closedBy: -1,
		logger:   logger,
	}
}

// SetSeed makes every subsequent deal deterministic.
// This should only be used by tests.
func (g *Game) SetSeed(seed int64) {
	g.testSeed = seed
}

// Started returns true once the first round has been dealt
func (g *Game) Started() bool {
	return g.phase != PhaseNotStarted
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Turn returns the seat whose turn it is
func (g *Game) Turn() int {
	return g.turn
}

// IsGameOver returns true once a player's total reached the target score or
// a forfeit ended the session
func (g *Game) IsGameOver() bool {
	return g.gameOver
}

// LastResult returns the result of the most recently closed round, or nil
func (g *Game) LastResult() *RoundResult {
	return g.lastResult
}

// Ready marks the player ready for the next round. When both players are
// ready a fresh round is dealt; started reports whether that happened.
func (g *Game) Ready(playerIdx int) (started bool, err error) {
	if err := g.validSeat(playerIdx); err != nil {
		return false, err
	}

	if g.gameOver {
		return false, ErrGameIsOver
	}

	if g.phase != PhaseNotStarted && g.phase != PhaseRoundClosed {
		return false, ErrRoundNotOver
	}

	g.players[playerIdx].ready = true
	if !g.players[0].ready || !g.players[1].ready {
		return false, nil
	}

	g.startRound()
	return true, nil
}

// startRound builds a fresh shuffled deck, deals seven cards to each player
// in alternating order, turns one card face up and opens play.
func (g *Game) startRound() {
	d := deck.New()
	if g.testSeed != 0 {
		d.SetSeed(g.testSeed + int64(g.roundNo))
	}
	d.Shuffle()

	for i := range g.players {
		g.players[i].hand = make(deck.Hand, 0, HandSize+1)
		g.players[i].ready = false
		g.players[i].roundPoints = 0
	}

	for i := 0; i < HandSize*2; i++ {
		card, err := d.Draw()
		if err != nil {
			panic(err)
		}

		g.players[i%2].hand.AddCard(card)
	}

	upcard, err := d.Draw()
	if err != nil {
		panic(err)
	}

	g.deck = d
	g.discard = deck.Hand{upcard}
	g.turn = g.roundNo % 2
	g.phase = PhaseAwaitingDraw
	g.closedBy = -1
	g.effect = ""
	g.lastResult = nil
	g.roundNo++

	g.logger.WithFields(logrus.Fields{
		"round": g.roundNo,
		"turn":  g.turn,
	}).Debug("round started")
}

// DrawDeck moves the top deck card into the player's hand.
// If the deck runs out, the discard pile minus its top card is reshuffled
// back in; when that is not possible the draw is rejected.
func (g *Game) DrawDeck(playerIdx int) (deck.Card, error) {
	if err := g.checkTurn(playerIdx, PhaseAwaitingDraw); err != nil {
		return deck.Card{}, err
	}

	if g.deck.CardsLeft() == 0 {
		if !g.canReplenish() {
			return deck.Card{}, ErrDeckExhausted
		}

		g.replenishDeck()
	}

	card, err := g.deck.Draw()
	if err != nil {
		// cannot happen, the pile was just checked
		panic(err)
	}

	g.players[playerIdx].hand.AddCard(card)
	g.phase = PhaseAwaitingDiscardOrClose

	if g.deck.CardsLeft() == 0 && g.canReplenish() {
		g.replenishDeck()
	}

	g.logger.WithField("seat", playerIdx).Debug("drew from deck")
	return card, nil
}

// DrawDiscard moves the top discard card into the player's hand
func (g *Game) DrawDiscard(playerIdx int) (deck.Card, error) {
	if err := g.checkTurn(playerIdx, PhaseAwaitingDraw); err != nil {
		return deck.Card{}, err
	}

	if len(g.discard) == 0 {
		return deck.Card{}, ErrEmptyDiscardPile
	}

	card := g.discard[len(g.discard)-1]
	g.discard = g.discard[:len(g.discard)-1]

	if CompletesMeld(card, g.players[playerIdx].hand) {
		g.effect = EffectRussia
	}

	g.players[playerIdx].hand.AddCard(card)
	g.phase = PhaseAwaitingDiscardOrClose

	g.logger.WithField("seat", playerIdx).WithField("card", card).Debug("drew from discard")
	return card, nil
}

// Discard removes the card from the player's hand, places it on top of the
// discard pile and passes the turn
func (g *Game) Discard(playerIdx int, card deck.Card) error {
	if err := g.checkTurn(playerIdx, PhaseAwaitingDiscardOrClose); err != nil {
		return err
	}

	if !g.players[playerIdx].hand.HasCard(card) {
		return ErrCardNotInHand
	}

	g.players[playerIdx].hand.Discard(card)
	g.discard.AddCard(card)
	g.turn = 1 - g.turn
	g.phase = PhaseAwaitingDraw

	g.logger.WithField("seat", playerIdx).WithField("card", card).Debug("discarded")
	return nil
}

// Close attempts to end the round by discarding card. The remaining seven
// cards must decompose with a leftover value at or below the close
// threshold. On success the round is scored and both hands are revealed.
func (g *Game) Close(playerIdx int, card deck.Card) (*RoundResult, error) {
	if err := g.checkTurn(playerIdx, PhaseAwaitingDiscardOrClose); err != nil {
		return nil, err
	}

	if !g.players[playerIdx].hand.HasCard(card) {
		return nil, ErrCardNotInHand
	}

	remaining := g.players[playerIdx].hand.Clone()
	remaining.Discard(card)

	closerDecomp := FindBestDecomposition(remaining)
	if closerDecomp.LeftoverValue() > g.opts.CloseThreshold {
		return nil, ErrInvalidClose
	}

	// validation done, commit
	g.players[playerIdx].hand.Discard(card)
	g.discard.AddCard(card)
	g.phase = PhaseRoundClosed
	g.closedBy = playerIdx

	opponent := 1 - playerIdx
	var decomps [2]Decomposition
	decomps[playerIdx] = closerDecomp
	decomps[opponent] = FindBestDecomposition(g.players[opponent].hand)

	points := scoreRound(playerIdx, decomps)
	for i, p := range g.players {
		p.roundPoints = points[i]
		p.totalScore += points[i]
	}

	result := &RoundResult{
		Type:        TypeRoundOver,
		Winner:      playerIdx,
		TotalScores: [2]int{g.players[0].totalScore, g.players[1].totalScore},
		P0Points:    points[0],
		P1Points:    points[1],
	}

	for i, p := range g.players {
		result.HandsAtEnd[i] = RevealedHand{
			Cards:    p.hand.Clone(),
			Melds:    decomps[i].Melds,
			Leftover: decomps[i].Leftover,
			Points:   points[i],
		}
	}

	if g.players[0].totalScore >= g.opts.TargetScore || g.players[1].totalScore >= g.opts.TargetScore {
		g.gameOver = true
		result.Type = TypeGameOver
		result.Winner = g.overallWinner()
	}

	g.lastResult = result

	g.logger.WithFields(logrus.Fields{
		"seat":   playerIdx,
		"points": points,
		"type":   result.Type,
	}).Debug("round closed")

	return result, nil
}

// overallWinner is the seat with the lower total; the closer wins ties
func (g *Game) overallWinner() int {
	if g.players[0].totalScore == g.players[1].totalScore {
		return g.closedBy
	}

	if g.players[0].totalScore < g.players[1].totalScore {
		return 0
	}

	return 1
}

// Reorder replaces the player's stored hand order. The new hand must hold
// exactly the same cards; only the order changes. Valid in any phase.
func (g *Game) Reorder(playerIdx int, newHand []deck.Card) error {
	if err := g.validSeat(playerIdx); err != nil {
		return err
	}

	if g.phase == PhaseNotStarted {
		return ErrRoundNotStarted
	}

	hand, err := deck.NewHand(newHand)
	if err != nil {
		return err
	}

	if !g.players[playerIdx].hand.SameCards(hand) {
		return ErrHandMismatch
	}

	g.players[playerIdx].hand = hand
	return nil
}

// Forfeit ends the game in favor of the other seat. Used when a player
// abandons the session.
func (g *Game) Forfeit(playerIdx int) (*RoundResult, error) {
	if err := g.validSeat(playerIdx); err != nil {
		return nil, err
	}

	if g.gameOver {
		return nil, ErrGameIsOver
	}

	winner := 1 - playerIdx
	g.gameOver = true
	g.phase = PhaseRoundClosed
	g.closedBy = winner

	result := &RoundResult{
		Type:        TypeGameOver,
		Winner:      winner,
		TotalScores: [2]int{g.players[0].totalScore, g.players[1].totalScore},
	}

	for i, p := range g.players {
		result.HandsAtEnd[i] = RevealedHand{
			Cards:    p.hand.Clone(),
			Leftover: p.hand.Clone(),
		}
	}

	g.lastResult = result

	g.logger.WithField("seat", playerIdx).Info("player forfeited")
	return result, nil
}

// TakeEffect returns the pending one-shot effect and clears it
func (g *Game) TakeEffect() string {
	effect := g.effect
	g.effect = ""
	return effect
}

// StateFor builds the broadcast view for the seat. The opponent's hand only
// contributes its size.
func (g *Game) StateFor(playerIdx int) *ClientState {
	state := &ClientState{
		GameStarted: g.Started() && g.phase != PhaseRoundClosed,
		PlayerIdx:   playerIdx,
		Turn:        g.turn,
		Hand:        []deck.Card{},
		Scores:      [2]int{g.players[0].totalScore, g.players[1].totalScore},
		Effect:      g.effect,
	}

	if !g.Started() {
		return state
	}

	opponent := 1 - playerIdx
	state.Hand = g.players[playerIdx].hand.Clone()
	state.OppCount = len(g.players[opponent].hand)
	state.DeckCount = g.deck.CardsLeft()

	if len(g.discard) > 0 {
		top := g.discard[len(g.discard)-1]
		state.TopDiscard = &top
	}

	return state
}

// CardCount returns the total number of cards across the deck, the discard
// pile and both hands. It is always 40 mid-round.
func (g *Game) CardCount() int {
	if !g.Started() {
		return 0
	}

	return g.deck.CardsLeft() + len(g.discard) + len(g.players[0].hand) + len(g.players[1].hand)
}

func (g *Game) canReplenish() bool {
	return len(g.discard) >= 2
}

// replenishDeck shuffles all but the top discard card back into the deck
func (g *Game) replenishDeck() {
	top := g.discard[len(g.discard)-1]
	rest := g.discard[:len(g.discard)-1]

	g.deck.ShuffleDiscards(rest)
	g.discard = deck.Hand{top}

	g.logger.WithField("cards", g.deck.CardsLeft()).Debug("reshuffled discard pile into deck")
}

func (g *Game) checkTurn(playerIdx int, want Phase) error {
	if err := g.validSeat(playerIdx); err != nil {
		return err
	}

	if g.gameOver {
		return ErrGameIsOver
	}

	if g.phase == PhaseNotStarted {
		return ErrRoundNotStarted
	}

	if g.turn != playerIdx {
		return ErrNotPlayersTurn
	}

	if g.phase != want {
		return ErrWrongPhase
	}

	return nil
}

func (g *Game) validSeat(playerIdx int) error {
	if playerIdx < 0 || playerIdx > 1 {
		return ErrInvalidSeat
	}

	return nil
}
