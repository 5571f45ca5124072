package shogi_test

import (
	"testing"

	"shogi/pkg/shogi"
)

// TestSFEN_InitialRoundTrip verifies parse and render agree on the even
// game.
func TestSFEN_InitialRoundTrip(t *testing.T) {
	pos, err := shogi.ParseSFEN(shogi.InitialSFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := pos.SFEN(1); got != shogi.InitialSFEN {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", got, shogi.InitialSFEN)
	}
	if got := shogi.NewInitialPosition().SFEN(1); got != shogi.InitialSFEN {
		t.Fatalf("built-in setup disagrees with notation: %s", got)
	}
}

// TestSFEN_HandsAndPromoted verifies hand counts and promoted markers
// survive a round trip.
func TestSFEN_HandsAndPromoted(t *testing.T) {
	sfen := "4k4/9/4+P4/9/9/9/9/9/4K4 w 2Pb 42"
	pos, err := shogi.ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pos.Turn() != shogi.White {
		t.Fatalf("turn should be white, got %s", pos.Turn())
	}
	if got := pos.HandCount(shogi.Black, shogi.Pawn); got != 2 {
		t.Fatalf("black should hold 2 pawns, got %d", got)
	}
	if got := pos.HandCount(shogi.White, shogi.Bishop); got != 1 {
		t.Fatalf("white should hold 1 bishop, got %d", got)
	}
	tokin := pos.PieceAt(mustSquare(t, 5, 3))
	if tokin == nil || tokin.Kind != shogi.Pawn || !tokin.Promoted || tokin.Color != shogi.Black {
		t.Fatalf("expected black tokin on 5c, got %+v", tokin)
	}
	if got := pos.SFEN(42); got != sfen {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", got, sfen)
	}
}

// TestSFEN_EmptyHandsDash verifies the hands field renders as a dash when
// both hands are empty.
func TestSFEN_EmptyHandsDash(t *testing.T) {
	pos, err := shogi.ParseSFEN("4k4/9/9/9/9/9/9/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := pos.SFEN(1); got != "4k4/9/9/9/9/9/9/9/4K4 b - 1" {
		t.Fatalf("unexpected render: %s", got)
	}
}

// TestParseSFEN_Invalid verifies malformed inputs are rejected.
func TestParseSFEN_Invalid(t *testing.T) {
	cases := []string{
		"",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL",
		"8/9/9/9/9/9/9/9/9 b - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL x - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b ? 1",
	}
	for _, sfen := range cases {
		if _, err := shogi.ParseSFEN(sfen); err == nil {
			t.Errorf("expected error for %q", sfen)
		}
	}
}
