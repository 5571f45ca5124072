package shogi_test

import (
	"testing"

	"shogi/pkg/shogi"
)

var kifSample = []string{
	"# ---- test game ----",
	"手合割：平手",
	"先手：testplayer(1859)",
	"後手：opponent(1703)",
	"手数----指手---------消費時間--",
	"   1 ７六歩(77)   ( 0:01/00:00:01)",
	"   2 ３四歩(33)   ( 0:01/00:00:01)",
	"   3 ２二角成(88) ( 0:02/00:00:03)",
	"   4 同　銀(31)   ( 0:02/00:00:03)",
	"   5 投了",
}

// TestParseKIF_MovesAndHeaders verifies move decoding, the same-square
// shorthand and the player headers.
func TestParseKIF_MovesAndHeaders(t *testing.T) {
	game, err := shogi.ParseKIF(kifSample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []shogi.Move{
		shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 6), false),
		shogi.Relocate(mustSquare(t, 3, 3), mustSquare(t, 3, 4), false),
		shogi.Relocate(mustSquare(t, 8, 8), mustSquare(t, 2, 2), true),
		shogi.Relocate(mustSquare(t, 3, 1), mustSquare(t, 2, 2), false),
	}
	if len(game.Moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(game.Moves), len(want))
	}
	for i, mv := range want {
		if game.Moves[i] != mv {
			t.Errorf("move %d: got %s want %s", i+1, game.Moves[i], mv)
		}
	}
	if game.SenteName != "testplayer" || game.SenteRating != 1859 {
		t.Errorf("sente header: %q %d", game.SenteName, game.SenteRating)
	}
	if game.GoteName != "opponent" || game.GoteRating != 1703 {
		t.Errorf("gote header: %q %d", game.GoteName, game.GoteRating)
	}
	if game.Terminal != "投了" {
		t.Errorf("terminal: %q", game.Terminal)
	}
	if game.FoulEnd {
		t.Error("resignation is not a foul end")
	}
}

// TestKIFGame_Result verifies the terminal marker to outcome mapping.
func TestKIFGame_Result(t *testing.T) {
	cases := []struct {
		moves    int
		terminal string
		want     string
	}{
		{4, "投了", "gote_win"},   // sente resigns on ply 5
		{5, "投了", "sente_win"},  // gote resigns on ply 6
		{4, "詰み", "sente_win"},  // mate marker on ply 5
		{4, "反則勝ち", "sente_win"},
		{4, "反則負け", "gote_win"}, // sente committed the foul
		{6, "中断", "abort"},
		{8, "千日手", "draw"},
		{8, "持将棋", "draw"},
		{3, "", "unknown"},
	}
	for _, tc := range cases {
		game := &shogi.KIFGame{
			Moves:    make([]shogi.Move, tc.moves),
			Terminal: tc.terminal,
		}
		if got := game.Result(); got != tc.want {
			t.Errorf("%d moves, terminal %q: got %s want %s", tc.moves, tc.terminal, got, tc.want)
		}
	}
}

// TestParseKIF_DropAndNoPromote verifies the 打 and 不成 modifiers.
func TestParseKIF_DropAndNoPromote(t *testing.T) {
	lines := []string{
		"   1 ７六歩(77)   ( 0:01/00:00:01)",
		"   2 ３四歩(33)   ( 0:01/00:00:01)",
		"   3 ４五桂打     ( 0:02/00:00:03)",
		"   4 ８八角不成(22) ( 0:02/00:00:03)",
	}
	game, err := shogi.ParseKIF(lines)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(game.Moves) != 4 {
		t.Fatalf("got %d moves", len(game.Moves))
	}
	drop := game.Moves[2]
	if !drop.IsDrop || drop.Kind != shogi.Knight || drop.To != mustSquare(t, 4, 5) {
		t.Fatalf("unexpected drop: %+v", drop)
	}
	noPromote := game.Moves[3]
	if noPromote.Promote {
		t.Fatalf("不成 must not promote: %+v", noPromote)
	}
	if noPromote.From != mustSquare(t, 2, 2) || noPromote.To != mustSquare(t, 8, 8) {
		t.Fatalf("unexpected squares: %+v", noPromote)
	}
}

// TestParseKIF_HandicapRejected verifies non-even games are refused.
func TestParseKIF_HandicapRejected(t *testing.T) {
	lines := []string{
		"手合割：香落ち",
		"   1 ７六歩(77)   ( 0:01/00:00:01)",
	}
	if _, err := shogi.ParseKIF(lines); err == nil {
		t.Fatal("handicap games should be rejected")
	}
}

// TestKIFGame_Replay verifies a parsed record replays as a legal game.
func TestKIFGame_Replay(t *testing.T) {
	parsed, err := shogi.ParseKIF(kifSample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	game, err := parsed.Replay()
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(game.History()) != 4 {
		t.Fatalf("replayed %d moves", len(game.History()))
	}
	pos := game.Position()
	silver := pos.PieceAt(mustSquare(t, 2, 2))
	if silver == nil || silver.Kind != shogi.Silver || silver.Color != shogi.White {
		t.Fatalf("white silver should stand on 2b, got %+v", silver)
	}
	if got := pos.HandCount(shogi.White, shogi.Bishop); got != 1 {
		t.Fatalf("white should hold the traded bishop, got %d", got)
	}
}

// TestKIFGame_ReplayRejectsIllegal verifies replay surfaces a bad record.
func TestKIFGame_ReplayRejectsIllegal(t *testing.T) {
	parsed := &shogi.KIFGame{
		Moves: []shogi.Move{
			shogi.Relocate(mustSquare(t, 7, 7), mustSquare(t, 7, 4), false),
		},
	}
	if _, err := parsed.Replay(); err == nil {
		t.Fatal("illegal move should fail the replay")
	}
}
