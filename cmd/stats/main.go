package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"shogi/pkg/shogi"
)

type ratingBins struct {
	binSize int
	known   int
	unknown int
	min     int
	max     int
	bins    map[int]int
}

func newRatingBins(binSize int) *ratingBins {
	return &ratingBins{binSize: binSize, bins: make(map[int]int)}
}

func (rb *ratingBins) Add(rating int32) {
	if rating <= 0 {
		rb.unknown++
		return
	}
	value := int(rating)
	if rb.known == 0 || value < rb.min {
		rb.min = value
	}
	if rb.known == 0 || value > rb.max {
		rb.max = value
	}
	rb.known++
	rb.bins[(value/rb.binSize)*rb.binSize]++
}

// main summarizes a game archive: outcome and win-reason distribution plus
// player rating spread. Input is either a parquet archive or a raw KIF
// directory.
func main() {
	kifDir := flag.String("kif-dir", "", "input directory for KIF files")
	parquetPath := flag.String("parquet", "", "input parquet file")
	binSize := flag.Int("bin-size", 100, "rating bin size")
	flag.Parse()

	if *binSize <= 0 {
		fatal(fmt.Errorf("bin-size must be > 0"))
	}
	if (*kifDir == "") == (*parquetPath == "") {
		fatal(fmt.Errorf("specify exactly one of -kif-dir or -parquet"))
	}

	results := make(map[string]int)
	reasons := make(map[string]int)
	ratings := newRatingBins(*binSize)
	total := 0
	failed := 0
	totalMoves := 0

	if *parquetPath != "" {
		records, err := shogi.ReadRecords(*parquetPath, 4)
		if err != nil {
			fatal(err)
		}
		for _, record := range records {
			total++
			totalMoves += int(record.MoveCount)
			results[record.Result]++
			if record.WinReason != "" {
				reasons[record.WinReason]++
			}
			ratings.Add(record.SenteRating)
			ratings.Add(record.GoteRating)
		}
	} else {
		files, err := shogi.CollectKIF(*kifDir)
		if err != nil {
			fatal(err)
		}
		if len(files) == 0 {
			fatal(fmt.Errorf("no .kif files found in %s", *kifDir))
		}
		for _, path := range files {
			game, err := shogi.LoadKIF(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", path, err)
				failed++
				continue
			}
			total++
			totalMoves += len(game.Moves)
			results[game.Result()]++
			if game.Terminal != "" {
				reasons[game.Terminal]++
			}
			ratings.Add(int32(game.SenteRating))
			ratings.Add(int32(game.GoteRating))
		}
	}

	fmt.Printf("games: %d (failed files: %d)\n", total, failed)
	if total > 0 {
		fmt.Printf("average moves: %.1f\n", float64(totalMoves)/float64(total))
	}
	fmt.Println("results:")
	for _, key := range sortedKeys(results) {
		fmt.Printf("  %s,%d\n", key, results[key])
	}
	fmt.Println("win reasons:")
	for _, key := range sortedKeys(reasons) {
		fmt.Printf("  %s,%d\n", key, reasons[key])
	}
	fmt.Printf("ratings: known=%d unknown=%d\n", ratings.known, ratings.unknown)
	if ratings.known > 0 {
		fmt.Printf("rating range: %d-%d\n", ratings.min, ratings.max)
	}
	fmt.Printf("rating distribution (bin size=%d):\n", ratings.binSize)
	keys := make([]int, 0, len(ratings.bins))
	for key := range ratings.bins {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	for _, start := range keys {
		fmt.Printf("%d-%d,%d\n", start, start+ratings.binSize-1, ratings.bins[start])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
