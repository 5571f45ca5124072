package shogi_test

import (
	"testing"

	"shogi/pkg/shogi"
)

// TestGame_LegalMoveAdvances verifies Play applies a legal move and records
// it in the history.
func TestGame_LegalMoveAdvances(t *testing.T) {
	game := shogi.NewGame()
	mv := shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 6), false)
	game.Play(mv)

	if res := game.Result(); res.Terminal() {
		t.Fatalf("game should still be ongoing, got %s", res)
	}
	history := game.History()
	if len(history) != 1 || history[0] != mv {
		t.Fatalf("history should hold the played move, got %v", history)
	}
	if game.Position().Turn() != shogi.White {
		t.Fatal("turn should pass to white")
	}
}

// TestGame_IllegalMoveLosesForMover verifies an illegal move terminates the
// game in the opponent's favor without touching the position.
func TestGame_IllegalMoveLosesForMover(t *testing.T) {
	game := shogi.NewGame()
	before := game.Position().SFEN(1)
	game.Play(shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 4), false))

	res := game.Result()
	if res.Kind != shogi.IllegalMove {
		t.Fatalf("expected illegal_move result, got %s", res.Kind)
	}
	if res.Winner != shogi.White {
		t.Fatalf("white should win, got %s", res.Winner)
	}
	if game.Position().SFEN(1) != before {
		t.Fatal("illegal move must not mutate the position")
	}
	if len(game.History()) != 0 {
		t.Fatal("illegal move must not enter the history")
	}
}

// TestGame_TerminalIsAbsorbing verifies moves and resignations after the
// end are ignored.
func TestGame_TerminalIsAbsorbing(t *testing.T) {
	game := shogi.NewGame()
	game.Resign(shogi.Black)

	res := game.Result()
	if res.Kind != shogi.Resignation || res.Winner != shogi.White {
		t.Fatalf("black's resignation should hand white the win, got %s", res)
	}

	game.Play(shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 6), false))
	game.Resign(shogi.White)
	if got := game.Result(); got != res {
		t.Fatalf("terminal result changed: %s -> %s", res, got)
	}
	if len(game.History()) != 0 {
		t.Fatal("no move should apply after the game ended")
	}
}

// TestGame_PositionSnapshotIsolated verifies callers cannot mutate the
// session through the returned position.
func TestGame_PositionSnapshotIsolated(t *testing.T) {
	game := shogi.NewGame()
	snapshot := game.Position()
	snapshot.ClearSquare(mustSquare(t, 7, 7))

	if game.Position().PieceAt(mustSquare(t, 7, 7)) == nil {
		t.Fatal("mutating the snapshot must not affect the session")
	}
}

// TestGame_IDsAreUnique is a smoke test for session identity.
func TestGame_IDsAreUnique(t *testing.T) {
	a, b := shogi.NewGame(), shogi.NewGame()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID(), b.ID())
	}
}

// TestGame_FromPositionClonesSetup verifies the starting position is copied
// into the session.
func TestGame_FromPositionClonesSetup(t *testing.T) {
	pos := shogi.NewPosition()
	pos.SetPiece(5, 9, shogi.King, shogi.Black, false)
	pos.SetPiece(5, 1, shogi.King, shogi.White, false)
	game := shogi.NewGameFromPosition(pos)

	pos.ClearSquare(mustSquare(t, 5, 1))
	if game.Position().PieceAt(mustSquare(t, 5, 1)) == nil {
		t.Fatal("session must not share state with the setup position")
	}
}

// TestGame_DeclareCheckmate verifies a mated side-to-move ends the session
// in the opponent's favor, and that the call is idempotent.
func TestGame_DeclareCheckmate(t *testing.T) {
	pos := shogi.NewPosition()
	pos.SetPiece(5, 1, shogi.King, shogi.White, false)
	pos.SetPiece(5, 2, shogi.Gold, shogi.Black, false)
	pos.SetPiece(4, 3, shogi.Silver, shogi.Black, false) // guards the gold
	pos.SetPiece(9, 9, shogi.King, shogi.Black, false)
	pos.SetTurn(shogi.White)

	game := shogi.NewGameFromPosition(pos)
	if !game.DeclareCheckmate() {
		t.Fatal("mated position should end the game")
	}
	result := game.Result()
	if result.Kind != shogi.Checkmate || result.Winner != shogi.Black {
		t.Fatalf("unexpected result: %v", result)
	}
	if game.DeclareCheckmate() {
		t.Fatal("terminal game should not end twice")
	}
}

func TestGame_DeclareCheckmateRequiresMate(t *testing.T) {
	game := shogi.NewGame()
	if game.DeclareCheckmate() {
		t.Fatal("opening position is not a mate")
	}
	if game.Result().Terminal() {
		t.Fatalf("game should still be ongoing: %v", game.Result())
	}
}
