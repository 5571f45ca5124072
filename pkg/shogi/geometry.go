package shogi

// offset is a relative board step: df in files, dr in ranks.
type offset struct {
	df int
	dr int
}

var (
	kingSteps = []offset{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	orthogonalDirs = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func goldSteps(fwd int) []offset {
	return []offset{
		{-1, fwd}, {0, fwd}, {1, fwd},
		{-1, 0}, {1, 0},
		{0, -fwd},
	}
}

func silverSteps(fwd int) []offset {
	return []offset{
		{-1, fwd}, {0, fwd}, {1, fwd},
		{-1, -fwd}, {1, -fwd},
	}
}

func knightSteps(fwd int) []offset {
	return []offset{{-1, 2 * fwd}, {1, 2 * fwd}}
}

// Destinations returns every square the piece on from may move to under
// pure movement geometry and occupancy: own pieces are excluded, enemy
// pieces are reachable (capture) and block rays behind them.
func (p *Position) Destinations(from Square) []Square {
	piece := p.pieceRef(from)
	if piece == nil {
		return nil
	}
	fwd := piece.Color.forward()

	var steps []offset
	var rays []offset

	switch {
	case piece.Kind == King:
		steps = kingSteps
	case piece.goldLike():
		steps = goldSteps(fwd)
	case piece.Kind == Silver:
		steps = silverSteps(fwd)
	case piece.Kind == Pawn:
		steps = []offset{{0, fwd}}
	case piece.Kind == Knight:
		steps = knightSteps(fwd)
	case piece.Kind == Lance:
		rays = []offset{{0, fwd}}
	case piece.Kind == Bishop:
		rays = diagonalDirs
		if piece.Promoted {
			steps = orthogonalDirs
		}
	case piece.Kind == Rook:
		rays = orthogonalDirs
		if piece.Promoted {
			steps = diagonalDirs
		}
	}

	var out []Square
	for _, st := range steps {
		to := Square{File: from.File + st.df, Rank: from.Rank + st.dr}
		if !to.valid() {
			continue
		}
		if dst := p.pieceRef(to); dst != nil && dst.Color == piece.Color {
			continue
		}
		out = append(out, to)
	}
	for _, dir := range rays {
		to := Square{File: from.File + dir.df, Rank: from.Rank + dir.dr}
		for to.valid() {
			dst := p.pieceRef(to)
			if dst == nil {
				out = append(out, to)
				to = Square{File: to.File + dir.df, Rank: to.Rank + dir.dr}
				continue
			}
			if dst.Color != piece.Color {
				out = append(out, to)
			}
			break
		}
	}
	return out
}

// promotionZone reports whether the rank lies in the color's three farthest
// ranks.
func promotionZone(c Color, rank int) bool {
	if c == Black {
		return rank <= 3
	}
	return rank >= 7
}

// lastRanks returns the color's farthest and second-farthest ranks, used by
// the forced-promotion and dead-drop rules.
func lastRanks(c Color) (last, secondLast int) {
	if c == Black {
		return 1, 2
	}
	return 9, 8
}

// mustPromote reports whether a kind arriving on rank would have no further
// legal step and therefore must promote (pawn/lance on the last rank,
// knight on the last two).
func mustPromote(k Kind, c Color, rank int) bool {
	last, secondLast := lastRanks(c)
	switch k {
	case Pawn, Lance:
		return rank == last
	case Knight:
		return rank == last || rank == secondLast
	default:
		return false
	}
}

// dropAllowedOnRank is the dead-drop rule: the dropped piece needs at least
// one theoretically reachable square from its landing rank.
func dropAllowedOnRank(k Kind, c Color, rank int) bool {
	return !mustPromote(k, c, rank)
}
