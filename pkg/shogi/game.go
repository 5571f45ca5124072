package shogi

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultKind tags the GameResult union.
type ResultKind int

const (
	Ongoing ResultKind = iota
	Resignation
	Checkmate
	IllegalMove
)

func (k ResultKind) String() string {
	switch k {
	case Resignation:
		return "resignation"
	case Checkmate:
		return "checkmate"
	case IllegalMove:
		return "illegal_move"
	default:
		return "ongoing"
	}
}

// GameResult is the session outcome. Winner is meaningful for every
// non-Ongoing kind; Reason is set for IllegalMove. All non-Ongoing results
// are terminal and absorbing.
type GameResult struct {
	Kind   ResultKind
	Winner Color
	Reason string
}

func (r GameResult) Terminal() bool { return r.Kind != Ongoing }

func (r GameResult) String() string {
	switch r.Kind {
	case Ongoing:
		return "ongoing"
	case IllegalMove:
		return fmt.Sprintf("%s wins (illegal move: %s)", r.Winner, r.Reason)
	default:
		return fmt.Sprintf("%s wins (%s)", r.Winner, r.Kind)
	}
}

// Game is a mutable single-owner session over immutable positions. Every
// move is gated through full legality before it is applied; the session
// never exposes a position that violates the rules.
type Game struct {
	id      string
	pos     *Position
	history []Move
	result  GameResult
}

// NewGame starts a session from the standard initial position.
func NewGame() *Game {
	return NewGameFromPosition(NewInitialPosition())
}

// NewGameFromPosition starts a session from a prepared position. The setup
// contract (one king per side, non-overlapping placement) is the caller's.
func NewGameFromPosition(pos *Position) *Game {
	return &Game{
		id:  uuid.NewString(),
		pos: pos.Clone(),
	}
}

// ID returns the session identifier.
func (g *Game) ID() string { return g.id }

// Position returns the current position snapshot.
func (g *Game) Position() *Position { return g.pos.Clone() }

// Result returns the current outcome.
func (g *Game) Result() GameResult { return g.result }

// History returns the applied moves in order.
func (g *Game) History() []Move {
	out := make([]Move, len(g.history))
	copy(out, g.history)
	return out
}

// Play applies a move. On a terminal game it is a no-op. An illegal move
// does not mutate the position; it terminates the game with IllegalMove,
// losing for the mover. Checkmate is not detected here; callers use
// Position().IsCheckmate when they want automatic termination.
func (g *Game) Play(mv Move) {
	if g.result.Terminal() {
		return
	}
	mover := g.pos.turn
	if !g.isLegal(mv) {
		g.result = GameResult{
			Kind:   IllegalMove,
			Winner: mover.Opponent(),
			Reason: fmt.Sprintf("%s is not a legal move", mv),
		}
		return
	}
	next, err := g.pos.Apply(mv)
	if err != nil {
		// Apply cannot fail for a move drawn from LegalMoves.
		g.result = GameResult{
			Kind:   IllegalMove,
			Winner: mover.Opponent(),
			Reason: err.Error(),
		}
		return
	}
	g.pos = next
	g.history = append(g.history, mv)
}

// Resign ends the game in the opponent's favor. No-op when already
// terminal.
func (g *Game) Resign(c Color) {
	if g.result.Terminal() {
		return
	}
	g.result = GameResult{Kind: Resignation, Winner: c.Opponent()}
}

// DeclareCheckmate ends the game in the opponent's favor when the side to
// move is checkmated, and reports whether it did. Play never terminates the
// session on its own, so a caller that wants mates recorded calls this after
// each move.
func (g *Game) DeclareCheckmate() bool {
	if g.result.Terminal() || !g.pos.IsCheckmate() {
		return false
	}
	g.result = GameResult{Kind: Checkmate, Winner: g.pos.turn.Opponent()}
	return true
}

func (g *Game) isLegal(mv Move) bool {
	for _, legal := range g.pos.LegalMoves() {
		if legal == mv {
			return true
		}
	}
	return false
}
