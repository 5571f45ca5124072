package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"shogi/pkg/shogi"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"
)

// main converts a directory of KIF files into one parquet archive. Each game
// is replayed through the rule engine, so the output only ever contains
// games whose moves were all legal (foul endings keep the prefix before the
// offending move). An optional engine pass annotates every position with an
// evaluation, and an optional filter expression keeps a subset of records.
func main() {
	inputDir := flag.String("input", "kif", "input directory for KIF files")
	outputPath := flag.String("output", "archive.parquet", "output parquet file")
	filterSrc := flag.String("filter", "", `record filter, e.g. "SenteRating > 2000 && Result == \"sente_win\""`)
	evaluate := flag.Bool("eval", false, "annotate positions with engine evaluations (needs config.json)")
	workers := flag.Int("workers", 0, "number of parallel workers (0=NumCPU)")
	maxFiles := flag.Int("max-files", 0, "maximum number of files to process (0=all)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}
	if *evaluate {
		// Engine stdin/stdout is a single conversation; evals are serial.
		*workers = 1
	}

	var filter *vm.Program
	if *filterSrc != "" {
		filter, err = expr.Compile(*filterSrc, expr.Env(shogi.GameRecord{}), expr.AsBool())
		if err != nil {
			fatal(fmt.Errorf("compile filter: %w", err))
		}
	}

	var engine *shogi.EngineSession
	var cfg shogi.Config
	ctx := context.Background()
	if *evaluate {
		var cfgDir string
		var err error
		cfg, cfgDir, err = shogi.FindConfig()
		if err != nil {
			fatal(err)
		}
		if cfgDir != "" && !filepath.IsAbs(cfg.Engine) {
			cfg.Engine = filepath.Join(cfgDir, cfg.Engine)
		}
		engine, err = shogi.StartEngine(ctx, cfg.Engine)
		if err != nil {
			fatal(err)
		}
		defer engine.Close()
		if err := engine.Handshake(ctx); err != nil {
			fatal(err)
		}
		logger.Info("engine ready", zap.String("engine", cfg.Engine), zap.Int("millis", cfg.Millis))
	}

	files, err := shogi.CollectKIF(*inputDir)
	if err != nil {
		fatal(err)
	}
	if len(files) == 0 {
		fatal(fmt.Errorf("no .kif files found in %s", *inputDir))
	}
	if *maxFiles > 0 && len(files) > *maxFiles {
		files = files[:*maxFiles]
	}
	logger.Info("archiving", zap.Int("files", len(files)), zap.Int("workers", *workers))

	start := time.Now()
	paths := make(chan string, *workers)
	records := make(chan shogi.GameRecord, *workers)
	var processed, skipped, filtered atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				record, err := buildRecord(ctx, path, engine, cfg.Millis)
				if err != nil {
					skipped.Add(1)
					logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
					continue
				}
				if filter != nil {
					keep, err := expr.Run(filter, record)
					if err != nil {
						fatal(fmt.Errorf("run filter: %w", err))
					}
					if !keep.(bool) {
						filtered.Add(1)
						continue
					}
				}
				records <- record
				processed.Add(1)
			}
		}()
	}

	go func() {
		for _, path := range files {
			paths <- path
		}
		close(paths)
	}()
	go func() {
		wg.Wait()
		close(records)
	}()

	// The main goroutine is the record consumer, so a writer failure (an
	// unwritable output path included) reaches fatal instead of leaving the
	// feeders blocked on a full channel.
	if err := shogi.WriteRecords(*outputPath, records, 4); err != nil {
		fatal(err)
	}

	logger.Info("done",
		zap.Int64("records", processed.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Int64("filtered", filtered.Load()),
		zap.Duration("elapsed", time.Since(start)))
}

// buildRecord parses one KIF file, replays it for legality, and assembles
// the archive row.
func buildRecord(ctx context.Context, path string, engine *shogi.EngineSession, millis int) (shogi.GameRecord, error) {
	kif, err := shogi.LoadKIF(path)
	if err != nil {
		return shogi.GameRecord{}, err
	}
	game, err := kif.Replay()
	if err != nil {
		return shogi.GameRecord{}, err
	}
	record, err := shogi.RecordFromGame(game)
	if err != nil {
		return shogi.GameRecord{}, err
	}
	record.SenteName = kif.SenteName
	record.SenteRating = int32(kif.SenteRating)
	record.GoteName = kif.GoteName
	record.GoteRating = int32(kif.GoteRating)
	record.Result = kif.Result()
	record.WinReason = kif.Terminal

	if engine != nil {
		evals, err := evaluateGame(ctx, engine, kif.Moves, millis)
		if err != nil {
			return shogi.GameRecord{}, err
		}
		record.MoveEvals = evals
	}
	return record, nil
}

// evaluateGame scores the position after every move.
func evaluateGame(ctx context.Context, engine *shogi.EngineSession, moves []shogi.Move, millis int) ([]shogi.MoveEval, error) {
	pos := shogi.NewInitialPosition()
	evals := make([]shogi.MoveEval, 0, len(moves))
	for i, mv := range moves {
		next, err := pos.Apply(mv)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", i+1, err)
		}
		pos = next
		score, _, err := engine.Evaluate(ctx, pos, i+2, millis)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", i+1, err)
		}
		evals = append(evals, shogi.MoveEval{
			Ply:        int32(i + 1),
			ScoreType:  score.Kind,
			ScoreValue: int32(score.Value),
		})
	}
	return evals, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
