package shogi

import "fmt"

// IsInCheck reports whether the color's king is attacked. A missing king is
// reported as not in check; callers that need the structural invariant use
// KingSquare.
func (p *Position) IsInCheck(c Color) bool {
	kingSq, err := p.KingSquare(c)
	if err != nil {
		return false
	}
	opponent := c.Opponent()
	for r := 1; r <= 9; r++ {
		for f := 1; f <= 9; f++ {
			from := Square{File: f, Rank: r}
			piece := p.pieceRef(from)
			if piece == nil || piece.Color != opponent {
				continue
			}
			for _, to := range p.Destinations(from) {
				if to == kingSq {
					return true
				}
			}
		}
	}
	return false
}

// IsLegalPosition reports whether the position can occur in a game: both
// kings on the board and the side that just moved (the opponent of the side
// to move) not left in check.
func (p *Position) IsLegalPosition() bool {
	if _, err := p.KingSquare(Black); err != nil {
		return false
	}
	if _, err := p.KingSquare(White); err != nil {
		return false
	}
	return !p.IsInCheck(p.turn.Opponent())
}

// IsCheckmate reports whether the side to move is in check with no legal
// reply. Detection only; terminal bookkeeping is the session's concern.
func (p *Position) IsCheckmate() bool {
	return p.IsInCheck(p.turn) && len(p.LegalMoves()) == 0
}

// LegalMoves returns every legal move for the side to move: pseudo-legal
// generation filtered so no move leaves the mover's own king in check.
// Order carries no meaning.
func (p *Position) LegalMoves() []Move {
	return p.legalMoves(true)
}

// legalMoves runs generation plus the self-check filter. checkDropMate
// guards the drop-checkmate test, which itself needs the legal moves of a
// derived position; passing false there bounds the recursion to one
// hypothetical extra ply.
func (p *Position) legalMoves(checkDropMate bool) []Move {
	var out []Move
	for _, mv := range p.pseudoLegalMoves(checkDropMate) {
		next, err := p.Apply(mv)
		if err != nil {
			continue
		}
		// The mover is the opponent of the next position's turn.
		if !next.IsInCheck(next.turn.Opponent()) {
			out = append(out, mv)
		}
	}
	return out
}

// PseudoLegalMoves returns all moves for the side to move that respect
// movement geometry, occupancy and the drop restrictions, without filtering
// for self-check exposure.
func (p *Position) PseudoLegalMoves() []Move {
	return p.pseudoLegalMoves(true)
}

func (p *Position) pseudoLegalMoves(checkDropMate bool) []Move {
	side := p.turn
	var out []Move

	for r := 1; r <= 9; r++ {
		for f := 1; f <= 9; f++ {
			from := Square{File: f, Rank: r}
			piece := p.pieceRef(from)
			if piece == nil || piece.Color != side {
				continue
			}
			for _, to := range p.Destinations(from) {
				out = append(out, expandPromotions(*piece, from, to)...)
			}
		}
	}

	for _, kind := range handKinds {
		if p.hands[side][kind] <= 0 {
			continue
		}
		for r := 1; r <= 9; r++ {
			if !dropAllowedOnRank(kind, side, r) {
				continue
			}
			for f := 1; f <= 9; f++ {
				to := Square{File: f, Rank: r}
				if p.pieceRef(to) != nil {
					continue
				}
				if kind == Pawn {
					if p.hasUnpromotedPawnOnFile(side, f) {
						continue
					}
					if checkDropMate && p.isDropCheckmate(Drop(Pawn, to)) {
						continue
					}
				}
				out = append(out, Drop(kind, to))
			}
		}
	}
	return out
}

// expandPromotions applies the promotion-option policy to one destination:
// outside the zone only the plain move exists, a dead-end destination
// forces promotion, and anywhere else both variants are candidates.
func expandPromotions(piece Piece, from, to Square) []Move {
	if piece.Promoted || !piece.Kind.Promotable() {
		return []Move{Relocate(from, to, false)}
	}
	inZone := promotionZone(piece.Color, from.Rank) || promotionZone(piece.Color, to.Rank)
	if !inZone {
		return []Move{Relocate(from, to, false)}
	}
	if mustPromote(piece.Kind, piece.Color, to.Rank) {
		return []Move{Relocate(from, to, true)}
	}
	return []Move{
		Relocate(from, to, true),
		Relocate(from, to, false),
	}
}

// isDropCheckmate reports whether the pawn drop delivers an immediate
// checkmate (uchifuzume): the opponent is in check and has no legal reply
// in the resulting position.
func (p *Position) isDropCheckmate(mv Move) bool {
	next, err := p.Apply(mv)
	if err != nil {
		return false
	}
	if !next.IsInCheck(next.turn) {
		return false
	}
	return len(next.legalMoves(false)) == 0
}

// Apply produces the successor position for a move. It checks structural
// preconditions only; full legality is the caller's responsibility
// (Game.Play checks against LegalMoves first).
func (p *Position) Apply(mv Move) (*Position, error) {
	if !mv.To.valid() {
		return nil, fmt.Errorf("%w: to=%v", ErrOutOfBoard, mv.To)
	}
	next := p.Clone()
	if mv.IsDrop {
		if err := next.applyDrop(mv); err != nil {
			return nil, err
		}
	} else {
		if err := next.applyRelocate(mv); err != nil {
			return nil, err
		}
	}
	next.toggleTurn()
	return next, nil
}

func (p *Position) applyDrop(mv Move) error {
	if mv.Kind == King {
		return ErrKingInHand
	}
	if p.pieceRef(mv.To) != nil {
		return fmt.Errorf("drop destination occupied: %s", mv.To)
	}
	if err := p.takeFromHand(p.turn, mv.Kind); err != nil {
		return err
	}
	p.setPiece(mv.To, &Piece{Kind: mv.Kind, Color: p.turn})
	return nil
}

func (p *Position) applyRelocate(mv Move) error {
	if !mv.From.valid() {
		return fmt.Errorf("%w: from=%v", ErrOutOfBoard, mv.From)
	}
	piece := p.pieceRef(mv.From)
	if piece == nil {
		return fmt.Errorf("no piece at %s", mv.From)
	}
	if piece.Color != p.turn {
		return fmt.Errorf("piece at %s belongs to %s", mv.From, piece.Color)
	}
	if captured := p.pieceRef(mv.To); captured != nil {
		if captured.Color == p.turn {
			return fmt.Errorf("own piece at %s", mv.To)
		}
		// Captures enter the hand demoted: Kind is the base kind, the
		// promoted flag is simply not carried over.
		if err := p.AddToHand(p.turn, captured.Kind, 1); err != nil {
			return err
		}
	}
	moved := *piece
	p.setPiece(mv.From, nil)
	if mv.Promote && moved.Kind.Promotable() &&
		(promotionZone(moved.Color, mv.From.Rank) || promotionZone(moved.Color, mv.To.Rank)) {
		moved = moved.Promote()
	}
	p.setPiece(mv.To, &moved)
	return nil
}
