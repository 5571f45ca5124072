package shogi

// NewInitialPosition returns the standard even-game (hirate) starting
// position: empty hands, Black to move.
func NewInitialPosition() *Position {
	pos := NewPosition()

	backRank := []Kind{Lance, Knight, Silver, Gold, King, Gold, Silver, Knight, Lance}
	for i, kind := range backRank {
		file := 9 - i
		pos.SetPiece(file, 9, kind, Black, false)
		pos.SetPiece(file, 1, kind, White, false)
	}

	pos.SetPiece(2, 8, Rook, Black, false)
	pos.SetPiece(8, 8, Bishop, Black, false)
	pos.SetPiece(8, 2, Rook, White, false)
	pos.SetPiece(2, 2, Bishop, White, false)

	for f := 1; f <= 9; f++ {
		pos.SetPiece(f, 7, Pawn, Black, false)
		pos.SetPiece(f, 3, Pawn, White, false)
	}

	return pos
}
