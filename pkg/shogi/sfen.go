package shogi

import (
	"errors"
	"fmt"
	"strings"
)

// InitialSFEN is the even-game starting position.
const InitialSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// ParseSFEN builds a Position from an SFEN record. The move counter field
// is accepted and ignored; Position does not track it.
func ParseSFEN(sfen string) (*Position, error) {
	fields := strings.Fields(sfen)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid sfen: %s", sfen)
	}
	pos := NewPosition()
	switch fields[1] {
	case "b":
	case "w":
		pos.turn = White
	default:
		return nil, fmt.Errorf("invalid turn field: %s", fields[1])
	}
	if err := parseSFENBoard(fields[0], pos); err != nil {
		return nil, err
	}
	if err := parseSFENHands(fields[2], pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func parseSFENBoard(board string, pos *Position) error {
	ranks := strings.Split(board, "/")
	if len(ranks) != 9 {
		return fmt.Errorf("invalid board ranks: %d", len(ranks))
	}
	for rankIndex, rankText := range ranks {
		file := 9
		runes := []rune(rankText)
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			if r >= '1' && r <= '9' {
				file -= int(r - '0')
				continue
			}
			promoted := false
			if r == '+' {
				promoted = true
				i++
				if i >= len(runes) {
					return errors.New("dangling promotion marker")
				}
				r = runes[i]
			}
			color := Black
			if r >= 'a' && r <= 'z' {
				color = White
				r -= 'a' - 'A'
			}
			kind, err := ParseKind(string(r))
			if err != nil {
				return fmt.Errorf("rank %d: %w", rankIndex+1, err)
			}
			if file < 1 {
				return fmt.Errorf("too many files in rank %d", rankIndex+1)
			}
			pos.SetPiece(file, rankIndex+1, kind, color, promoted)
			file--
		}
		if file != 0 {
			return fmt.Errorf("rank %d does not have 9 files", rankIndex+1)
		}
	}
	return nil
}

func parseSFENHands(hand string, pos *Position) error {
	if hand == "-" {
		return nil
	}
	count := 0
	for _, r := range hand {
		if r >= '0' && r <= '9' {
			count = count*10 + int(r-'0')
			continue
		}
		if count == 0 {
			count = 1
		}
		color := Black
		if r >= 'a' && r <= 'z' {
			color = White
			r -= 'a' - 'A'
		}
		kind, err := ParseKind(string(r))
		if err != nil {
			return fmt.Errorf("hand: %w", err)
		}
		if err := pos.AddToHand(color, kind, count); err != nil {
			return err
		}
		count = 0
	}
	if count != 0 {
		return errors.New("trailing hand count")
	}
	return nil
}

// SFEN formats the position as an SFEN record with the given move number.
func (p *Position) SFEN(moveNumber int) string {
	rows := make([]string, 0, 9)
	for rank := 1; rank <= 9; rank++ {
		rows = append(rows, p.rankSFEN(rank))
	}
	turn := "b"
	if p.turn == White {
		turn = "w"
	}
	hand := p.handsSFEN()
	if hand == "" {
		hand = "-"
	}
	return fmt.Sprintf("%s %s %s %d", strings.Join(rows, "/"), turn, hand, moveNumber)
}

func (p *Position) rankSFEN(rank int) string {
	var b strings.Builder
	empty := 0
	flushEmpty := func() {
		if empty > 0 {
			fmt.Fprintf(&b, "%d", empty)
			empty = 0
		}
	}
	for file := 9; file >= 1; file-- {
		piece := p.pieceRef(Square{File: file, Rank: rank})
		if piece == nil {
			empty++
			continue
		}
		flushEmpty()
		b.WriteString(piece.String())
	}
	flushEmpty()
	return b.String()
}

func (p *Position) handsSFEN() string {
	var b strings.Builder
	for _, color := range []Color{Black, White} {
		for _, kind := range handKinds {
			count := p.hands[color][kind]
			if count == 0 {
				continue
			}
			if count > 1 {
				fmt.Fprintf(&b, "%d", count)
			}
			text := string(kind)
			if color == White {
				text = lower(text)
			}
			b.WriteString(text)
		}
	}
	return b.String()
}
