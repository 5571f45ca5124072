package shogi

import "fmt"

// Move is a tagged union over the two move shapes. Board moves carry From
// and Promote; drops carry the dropped Kind. The zero fields of the other
// variant stay zero, so Move values compare with ==.
type Move struct {
	IsDrop  bool
	Kind    Kind // dropped kind; empty for board moves
	From    Square
	To      Square
	Promote bool
}

// Relocate builds a board move.
func Relocate(from, to Square, promote bool) Move {
	return Move{From: from, To: to, Promote: promote}
}

// Drop builds a drop move.
func Drop(kind Kind, to Square) Move {
	return Move{IsDrop: true, Kind: kind, To: to}
}

func (m Move) String() string {
	if m.IsDrop {
		return fmt.Sprintf("%s*%s", m.Kind, m.To)
	}
	s := fmt.Sprintf("%s%s", m.From, m.To)
	if m.Promote {
		s += "+"
	}
	return s
}
