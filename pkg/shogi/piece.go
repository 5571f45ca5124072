package shogi

import "fmt"

// Color identifies one of the two sides. Black (sente) moves first and
// advances toward rank 1; White (gote) advances toward rank 9.
type Color int

const (
	Black Color = iota
	White
)

func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// forward is the rank delta of a single forward step for the color.
func (c Color) forward() int {
	if c == Black {
		return -1
	}
	return 1
}

// Kind is a piece kind letter, matching the SFEN/USI alphabet.
type Kind string

const (
	Pawn   Kind = "P"
	Lance  Kind = "L"
	Knight Kind = "N"
	Silver Kind = "S"
	Gold   Kind = "G"
	Bishop Kind = "B"
	Rook   Kind = "R"
	King   Kind = "K"
)

// handKinds is the fixed order used for hands in SFEN and drop generation.
var handKinds = []Kind{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

// ParseKind validates a piece letter.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Pawn, Lance, Knight, Silver, Gold, Bishop, Rook, King:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown piece kind %q", s)
	}
}

// Promotable reports whether the kind has a promoted form.
// Gold and the king never promote.
func (k Kind) Promotable() bool {
	switch k {
	case Pawn, Lance, Knight, Silver, Bishop, Rook:
		return true
	default:
		return false
	}
}

// Piece is an immutable piece value. Transforms return new values.
type Piece struct {
	Kind     Kind
	Color    Color
	Promoted bool
}

// Promote returns the promoted counterpart of the piece. Non-promotable
// kinds are returned unchanged.
func (p Piece) Promote() Piece {
	if !p.Kind.Promotable() {
		return p
	}
	p.Promoted = true
	return p
}

// Demote returns the unpromoted base piece, as when it enters a hand.
func (p Piece) Demote() Piece {
	p.Promoted = false
	return p
}

// goldLike reports whether the piece moves with gold geometry: a gold
// itself, or a promoted pawn/lance/knight/silver.
func (p Piece) goldLike() bool {
	if p.Kind == Gold {
		return true
	}
	if !p.Promoted {
		return false
	}
	switch p.Kind {
	case Pawn, Lance, Knight, Silver:
		return true
	default:
		return false
	}
}

func (p Piece) String() string {
	s := string(p.Kind)
	if p.Promoted {
		s = "+" + s
	}
	if p.Color == White {
		return lower(s)
	}
	return s
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
