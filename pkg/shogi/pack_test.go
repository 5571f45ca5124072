package shogi_test

import (
	"testing"

	"shogi/pkg/shogi"
)

// TestPack_InitialRoundTrip verifies the packed form reproduces the even
// game exactly.
func TestPack_InitialRoundTrip(t *testing.T) {
	pos := shogi.NewInitialPosition()
	packed, err := pos.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	restored, err := shogi.UnpackPosition(packed)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if got, want := restored.SFEN(1), pos.SFEN(1); got != want {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", got, want)
	}
}

// TestPack_HandsAndPromoted verifies hand pieces, promoted pieces and the
// turn bit survive packing.
func TestPack_HandsAndPromoted(t *testing.T) {
	pos, err := shogi.ParseSFEN("4k4/9/4+P4/9/9/9/9/9/4K4 w 2Pb 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	packed, err := pos.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	restored, err := shogi.UnpackPosition(packed)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if restored.Turn() != shogi.White {
		t.Fatal("turn bit lost")
	}
	if got := restored.HandCount(shogi.Black, shogi.Pawn); got != 2 {
		t.Fatalf("black hand pawns: %d", got)
	}
	if got := restored.HandCount(shogi.White, shogi.Bishop); got != 1 {
		t.Fatalf("white hand bishop: %d", got)
	}
	if got, want := restored.SFEN(1), pos.SFEN(1); got != want {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", got, want)
	}
}

// TestPack_MissingKingFails verifies packing needs both king squares.
func TestPack_MissingKingFails(t *testing.T) {
	pos := shogi.NewPosition()
	pos.SetPiece(5, 9, shogi.King, shogi.Black, false)
	if _, err := pos.Pack(); err == nil {
		t.Fatal("packing without a white king should fail")
	}
}

// TestPacked256_Bytes verifies the byte codec.
func TestPacked256_Bytes(t *testing.T) {
	pos := shogi.NewInitialPosition()
	packed, err := pos.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	data := packed.Bytes()
	if len(data) != 32 {
		t.Fatalf("packed position should be 32 bytes, got %d", len(data))
	}
	back, err := shogi.Packed256FromBytes(data)
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if back != packed {
		t.Fatal("byte codec round trip mismatch")
	}
	if _, err := shogi.Packed256FromBytes(data[:31]); err == nil {
		t.Fatal("short input should be rejected")
	}
}

// TestPack_DiffersAcrossPositions is a sanity check that the encoding is
// position dependent.
func TestPack_DiffersAcrossPositions(t *testing.T) {
	a := shogi.NewInitialPosition()
	next, err := a.Apply(shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 6), false))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	pa, err := a.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	pb, err := next.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if pa == pb {
		t.Fatal("different positions must not pack identically")
	}
}
