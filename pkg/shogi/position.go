package shogi

import (
	"errors"
	"fmt"
)

// Sentinel errors for local invariant violations. When every move is routed
// through Game.Play's legality gate none of these can surface; direct
// low-level calls that trigger them indicate a setup or programming bug.
var (
	// ErrOutOfBoard reports a coordinate outside [1,9].
	ErrOutOfBoard = errors.New("square out of board")
	// ErrKingMissing reports a side with no king on the board.
	ErrKingMissing = errors.New("king missing from board")
	// ErrNotInHand reports a drop of a kind the mover does not hold.
	ErrNotInHand = errors.New("piece not in hand")
	// ErrKingInHand reports an attempt to put a king into a hand.
	ErrKingInHand = errors.New("king cannot enter a hand")
)

// Square is a board coordinate. File counts 9..1 from left to right in the
// usual diagram orientation, rank 1..9 from White's edge down.
type Square struct {
	File int
	Rank int
}

// NewSquare validates the coordinate range.
func NewSquare(file, rank int) (Square, error) {
	sq := Square{File: file, Rank: rank}
	if !sq.valid() {
		return Square{}, fmt.Errorf("%w: file=%d rank=%d", ErrOutOfBoard, file, rank)
	}
	return sq, nil
}

func (s Square) valid() bool {
	return s.File >= 1 && s.File <= 9 && s.Rank >= 1 && s.Rank <= 9
}

func (s Square) String() string {
	return fmt.Sprintf("%d%c", s.File, 'a'+s.Rank-1)
}

// Position is a snapshot of board, hands and side to move. Transitions go
// through Apply, which clones; a Position already handed out is never
// mutated by the engine.
type Position struct {
	board [9][9]*Piece
	hands map[Color]map[Kind]int
	turn  Color
}

// NewPosition returns an empty position with Black to move.
func NewPosition() *Position {
	return &Position{
		hands: map[Color]map[Kind]int{
			Black: {},
			White: {},
		},
	}
}

// Clone deep-copies the position.
func (p *Position) Clone() *Position {
	clone := NewPosition()
	clone.turn = p.turn
	for r := 0; r < 9; r++ {
		for f := 0; f < 9; f++ {
			if p.board[r][f] == nil {
				continue
			}
			piece := *p.board[r][f]
			clone.board[r][f] = &piece
		}
	}
	for color, hand := range p.hands {
		for kind, n := range hand {
			clone.hands[color][kind] = n
		}
	}
	return clone
}

// Turn returns the side to move.
func (p *Position) Turn() Color { return p.turn }

// SetTurn sets the side to move. Intended for setup and tests.
func (p *Position) SetTurn(c Color) { p.turn = c }

// PieceAt returns the piece on the square, or nil. Off-board squares are
// reported as empty.
func (p *Position) PieceAt(sq Square) *Piece {
	if !sq.valid() {
		return nil
	}
	piece := p.board[sq.Rank-1][sq.File-1]
	if piece == nil {
		return nil
	}
	cp := *piece
	return &cp
}

// SetPiece places a piece for setup and tests. Promoted kings and golds are
// not representable and the flag is dropped.
func (p *Position) SetPiece(file, rank int, kind Kind, color Color, promoted bool) {
	sq := Square{File: file, Rank: rank}
	if !sq.valid() {
		return
	}
	if !kind.Promotable() {
		promoted = false
	}
	p.board[rank-1][file-1] = &Piece{Kind: kind, Color: color, Promoted: promoted}
}

// ClearSquare removes any piece from the square.
func (p *Position) ClearSquare(sq Square) {
	if !sq.valid() {
		return
	}
	p.board[sq.Rank-1][sq.File-1] = nil
}

// HandCount returns how many pieces of the kind the color holds.
func (p *Position) HandCount(c Color, k Kind) int {
	return p.hands[c][k]
}

// AddToHand puts n pieces of a kind into the color's hand.
// Kings never enter a hand.
func (p *Position) AddToHand(c Color, k Kind, n int) error {
	if k == King {
		return ErrKingInHand
	}
	p.hands[c][k] += n
	return nil
}

// takeFromHand removes one piece of the kind, failing when none is held.
func (p *Position) takeFromHand(c Color, k Kind) error {
	if p.hands[c][k] <= 0 {
		return fmt.Errorf("%w: %s %s", ErrNotInHand, c, k)
	}
	p.hands[c][k]--
	if p.hands[c][k] == 0 {
		delete(p.hands[c], k)
	}
	return nil
}

// KingSquare locates the color's king.
func (p *Position) KingSquare(c Color) (Square, error) {
	for r := 1; r <= 9; r++ {
		for f := 1; f <= 9; f++ {
			piece := p.board[r-1][f-1]
			if piece != nil && piece.Kind == King && piece.Color == c {
				return Square{File: f, Rank: r}, nil
			}
		}
	}
	return Square{}, fmt.Errorf("%w: %s", ErrKingMissing, c)
}

// setPiece stores a copy of piece, or clears the square when nil.
func (p *Position) setPiece(sq Square, piece *Piece) {
	if !sq.valid() {
		return
	}
	if piece == nil {
		p.board[sq.Rank-1][sq.File-1] = nil
		return
	}
	cp := *piece
	p.board[sq.Rank-1][sq.File-1] = &cp
}

// pieceRef returns the stored piece without copying. Internal use only.
func (p *Position) pieceRef(sq Square) *Piece {
	if !sq.valid() {
		return nil
	}
	return p.board[sq.Rank-1][sq.File-1]
}

func (p *Position) toggleTurn() {
	p.turn = p.turn.Opponent()
}

// PieceCount counts pieces on the board and in both hands. Any single move
// leaves it unchanged.
func (p *Position) PieceCount() int {
	n := 0
	for r := 0; r < 9; r++ {
		for f := 0; f < 9; f++ {
			if p.board[r][f] != nil {
				n++
			}
		}
	}
	for _, hand := range p.hands {
		for _, c := range hand {
			n += c
		}
	}
	return n
}

// hasUnpromotedPawnOnFile supports the two-pawn drop prohibition.
func (p *Position) hasUnpromotedPawnOnFile(c Color, file int) bool {
	for r := 1; r <= 9; r++ {
		piece := p.board[r-1][file-1]
		if piece != nil && piece.Color == c && piece.Kind == Pawn && !piece.Promoted {
			return true
		}
	}
	return false
}
