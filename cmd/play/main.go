package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"shogi/pkg/shogi"

	"go.uber.org/zap"
)

// main runs an interactive two-player session. Moves are read from stdin in
// USI coordinate notation ("7g7f", "P*5e"), "resign" ends the game for the
// side to move, and "moves" lists the legal moves.
func main() {
	recordPath := flag.String("record", "", "write the finished game to this parquet file")
	sfenStart := flag.String("sfen", "", "start from this SFEN instead of the even game")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	game := shogi.NewGame()
	if *sfenStart != "" {
		pos, err := shogi.ParseSFEN(*sfenStart)
		if err != nil {
			fatal(err)
		}
		game = shogi.NewGameFromPosition(pos)
	}
	logger.Info("game started", zap.String("game_id", game.ID()))

	scanner := bufio.NewScanner(os.Stdin)
	for !game.Result().Terminal() {
		pos := game.Position()
		fmt.Println(pos.SFEN(len(game.History()) + 1))
		if pos.IsInCheck(pos.Turn()) {
			if game.DeclareCheckmate() {
				logger.Info("checkmate", zap.String("loser", pos.Turn().String()))
				fmt.Printf("checkmate, %s wins\n", pos.Turn().Opponent())
				break
			}
			fmt.Printf("%s is in check\n", pos.Turn())
		}
		fmt.Printf("%s> ", pos.Turn())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "resign":
			game.Resign(pos.Turn())
			continue
		case "moves":
			for _, mv := range pos.LegalMoves() {
				fmt.Println(mv.USI())
			}
			continue
		case "quit":
			os.Exit(0)
		}
		mv, err := shogi.ParseUSIMove(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad move %q: %v\n", input, err)
			continue
		}
		game.Play(mv)
		if res := game.Result(); res.Kind == shogi.IllegalMove {
			logger.Warn("illegal move ends the game",
				zap.String("move", mv.USI()),
				zap.String("reason", res.Reason))
		}
	}
	if err := scanner.Err(); err != nil {
		fatal(err)
	}

	result := game.Result()
	if result.Terminal() {
		fmt.Println(result)
	}
	logger.Info("game over",
		zap.String("game_id", game.ID()),
		zap.String("result", result.Kind.String()),
		zap.Int("moves", len(game.History())))

	if *recordPath != "" {
		if err := writeRecord(*recordPath, game); err != nil {
			fatal(err)
		}
		logger.Info("record written", zap.String("path", *recordPath))
	}
}

func writeRecord(path string, game *shogi.Game) error {
	record, err := shogi.RecordFromGame(game)
	if err != nil {
		return err
	}
	records := make(chan shogi.GameRecord, 1)
	records <- record
	close(records)
	return shogi.WriteRecords(path, records, 1)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
