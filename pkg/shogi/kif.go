package shogi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// KIFGame is a parsed game record: moves from the even-game starting
// position plus header metadata. Handicap games (non-hirate 手合割) are not
// supported; board-diagram setups belong to the setup collaborator.
type KIFGame struct {
	Moves       []Move
	SenteName   string
	SenteRating int
	GoteName    string
	GoteRating  int
	Terminal    string // terminal marker token, "" when absent
	FoulEnd     bool   // game ended with 反則勝ち/反則負け
}

var (
	kifMoveLineRe     = regexp.MustCompile(`^\s*(\d+)\s+(.+?)\s+\(`)
	kifTerminalLineRe = regexp.MustCompile(`^\s*(\d+)\s+(.+?)\s*$`)
	kifFromSquareRe   = regexp.MustCompile(`\((\d)(\d)\)`)
	kifNameRatingRe   = regexp.MustCompile(`^(.+?)\((\d+)\)$`)
)

// LoadKIF reads and parses one KIF file. UTF-8 (with or without BOM) and
// Shift-JIS encodings are accepted.
func LoadKIF(path string) (*KIFGame, error) {
	lines, err := readKIFLines(path)
	if err != nil {
		return nil, err
	}
	return ParseKIF(lines)
}

// ParseKIF parses KIF content already split into lines.
func ParseKIF(lines []string) (*KIFGame, error) {
	if h := kifHeaderValue(lines, "手合割"); h != "" && !strings.Contains(h, "平手") {
		return nil, fmt.Errorf("unsupported handicap: %s", h)
	}
	moves, err := parseKIFMoves(lines)
	if err != nil {
		return nil, err
	}
	game := &KIFGame{Moves: moves}
	game.SenteName, game.SenteRating = parseKIFNameRating(kifHeaderValue(lines, "先手"))
	game.GoteName, game.GoteRating = parseKIFNameRating(kifHeaderValue(lines, "後手"))
	game.Terminal, _ = findKIFTerminal(lines)
	game.FoulEnd = game.Terminal == "反則勝ち" || game.Terminal == "反則負け"
	return game, nil
}

// Replay validates the record by playing its moves through a fresh game.
// A foul-terminated record may end on the offending move; any other
// illegal move is an error.
func (g *KIFGame) Replay() (*Game, error) {
	game := NewGame()
	for i, mv := range g.Moves {
		game.Play(mv)
		if res := game.Result(); res.Kind == IllegalMove {
			if g.FoulEnd && i == len(g.Moves)-1 {
				return game, nil
			}
			return nil, fmt.Errorf("ply %d: %s", i+1, res.Reason)
		}
	}
	return game, nil
}

// Result maps the terminal marker onto a coarse outcome string
// (sente_win, gote_win, draw, abort, unknown).
func (g *KIFGame) Result() string {
	// The terminal marker occupies the ply after the last move.
	ply := len(g.Moves) + 1
	switch g.Terminal {
	case "中断":
		return "abort"
	case "持将棋", "千日手":
		return "draw"
	case "反則勝ち", "詰み":
		return kifWinnerFromPly(ply)
	case "投了", "切れ負け", "反則負け":
		return kifWinnerFromPly(ply + 1)
	default:
		return "unknown"
	}
}

func kifWinnerFromPly(ply int) string {
	if ply%2 == 1 {
		return "sente_win"
	}
	return "gote_win"
}

// CollectKIF lists the .kif files under root in sorted order.
func CollectKIF(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".kif") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func readKIFLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeKIF(data)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines, nil
}

func decodeKIF(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		data = data[3:]
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	reader := transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("failed to decode Shift-JIS KIF")
	}
	return string(decoded), nil
}

func parseKIFMoves(lines []string) ([]Move, error) {
	var moves []Move
	var prevDest *Square
	for i, line := range lines {
		match := kifMoveLineRe.FindStringSubmatch(line)
		if len(match) == 0 {
			continue
		}
		token := strings.TrimSpace(match[2])
		if token == "" {
			continue
		}
		if isKIFTerminalToken(token) {
			break
		}
		mv, err := parseKIFMoveToken(token, prevDest)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		moves = append(moves, mv)
		dest := mv.To
		prevDest = &dest
	}
	return moves, nil
}

var kifRankRunes = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// kifPieceNames maps KIF piece spellings to kind plus promoted state.
// forcePromote marks spellings like 成銀 that denote "this move promotes".
type kifPieceName struct {
	kind         Kind
	promoted     bool
	forcePromote bool
}

var kifPieceNames = []struct {
	name string
	def  kifPieceName
}{
	{"成銀", kifPieceName{kind: Silver, forcePromote: true}},
	{"成桂", kifPieceName{kind: Knight, forcePromote: true}},
	{"成香", kifPieceName{kind: Lance, forcePromote: true}},
	{"成歩", kifPieceName{kind: Pawn, forcePromote: true}},
	{"と", kifPieceName{kind: Pawn, promoted: true}},
	{"馬", kifPieceName{kind: Bishop, promoted: true}},
	{"龍", kifPieceName{kind: Rook, promoted: true}},
	{"竜", kifPieceName{kind: Rook, promoted: true}},
	{"王", kifPieceName{kind: King}},
	{"玉", kifPieceName{kind: King}},
	{"飛", kifPieceName{kind: Rook}},
	{"角", kifPieceName{kind: Bishop}},
	{"金", kifPieceName{kind: Gold}},
	{"銀", kifPieceName{kind: Silver}},
	{"桂", kifPieceName{kind: Knight}},
	{"香", kifPieceName{kind: Lance}},
	{"歩", kifPieceName{kind: Pawn}},
}

func parseKIFMoveToken(token string, prevDest *Square) (Move, error) {
	work := strings.TrimSpace(token)
	var dest Square
	if strings.HasPrefix(work, "同") {
		if prevDest == nil {
			return Move{}, errors.New("same-square move without previous destination")
		}
		dest = *prevDest
		work = strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(work, "同"), " 　"))
	} else {
		runes := []rune(work)
		if len(runes) < 2 {
			return Move{}, fmt.Errorf("invalid move token: %s", token)
		}
		file, ok := parseKIFFileRune(runes[0])
		if !ok {
			return Move{}, fmt.Errorf("invalid destination file in %s", token)
		}
		rank, ok := kifRankRunes[runes[1]]
		if !ok {
			return Move{}, fmt.Errorf("invalid destination rank in %s", token)
		}
		var err error
		dest, err = NewSquare(file, rank)
		if err != nil {
			return Move{}, err
		}
		work = strings.TrimSpace(string(runes[2:]))
	}

	from, hasFrom := parseKIFFromSquare(work)
	if hasFrom {
		work = kifFromSquareRe.ReplaceAllString(work, "")
	}

	noPromote := strings.Contains(work, "不成")
	if noPromote {
		work = strings.Replace(work, "不成", "", 1)
	}
	promote := strings.Contains(work, "成")
	if promote {
		work = strings.Replace(work, "成", "", 1)
	}
	isDrop := strings.Contains(work, "打")
	if isDrop {
		work = strings.Replace(work, "打", "", 1)
	}

	name, err := parseKIFPieceName(work)
	if err != nil {
		return Move{}, err
	}
	if name.forcePromote {
		promote = true
	}
	if noPromote {
		promote = false
	}
	if isDrop {
		if name.promoted {
			return Move{}, errors.New("cannot drop promoted piece")
		}
		return Drop(name.kind, dest), nil
	}
	if !hasFrom {
		return Move{}, errors.New("missing source square")
	}
	return Relocate(from, dest, promote), nil
}

func parseKIFPieceName(text string) (kifPieceName, error) {
	clean := strings.TrimSpace(text)
	for _, entry := range kifPieceNames {
		if strings.HasPrefix(clean, entry.name) {
			return entry.def, nil
		}
	}
	return kifPieceName{}, fmt.Errorf("unknown piece in %s", text)
}

func parseKIFFileRune(r rune) (int, bool) {
	if r >= '1' && r <= '9' {
		return int(r - '0'), true
	}
	if r >= '１' && r <= '９' {
		return int(r-'１') + 1, true
	}
	return 0, false
}

func parseKIFFromSquare(text string) (Square, bool) {
	match := kifFromSquareRe.FindStringSubmatch(text)
	if len(match) != 3 {
		return Square{}, false
	}
	sq, err := NewSquare(int(match[1][0]-'0'), int(match[2][0]-'0'))
	if err != nil {
		return Square{}, false
	}
	return sq, true
}

func isKIFTerminalToken(token string) bool {
	switch token {
	case "投了", "中断", "持将棋", "千日手", "詰み", "切れ負け",
		"反則勝ち", "反則負け", "入玉勝ち", "勝ち宣言":
		return true
	default:
		return false
	}
}

func findKIFTerminal(lines []string) (string, int) {
	ply := 0
	for _, line := range lines {
		match := kifMoveLineRe.FindStringSubmatch(line)
		if len(match) == 0 {
			// Terminal markers have no clock parenthesis.
			match = kifTerminalLineRe.FindStringSubmatch(line)
		}
		if len(match) == 0 {
			continue
		}
		token := strings.TrimSpace(match[2])
		if token == "" {
			continue
		}
		ply++
		if isKIFTerminalToken(token) {
			return token, ply
		}
	}
	return "", 0
}

func kifHeaderValue(lines []string, key string) string {
	prefixes := []string{key + "：", key + ":"}
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		for _, prefix := range prefixes {
			if strings.HasPrefix(trim, prefix) {
				return strings.TrimSpace(strings.TrimPrefix(trim, prefix))
			}
		}
	}
	return ""
}

func parseKIFNameRating(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}
	match := kifNameRatingRe.FindStringSubmatch(raw)
	if len(match) != 3 {
		return raw, 0
	}
	rating := 0
	for _, r := range match[2] {
		rating = rating*10 + int(r-'0')
	}
	return strings.TrimSpace(match[1]), rating
}
