package shogi

import (
	"fmt"
	"strings"
)

// ParseUSIMove decodes a USI move token ("7g7f", "2b3a+", "P*5e") into a
// Move. Drops never carry a promotion marker.
func ParseUSIMove(token string) (Move, error) {
	token = strings.TrimSpace(token)
	if strings.Contains(token, "*") {
		parts := strings.SplitN(token, "*", 2)
		if len(parts) != 2 || len(parts[0]) != 1 {
			return Move{}, fmt.Errorf("invalid drop move: %s", token)
		}
		kind, err := ParseKind(strings.ToUpper(parts[0]))
		if err != nil {
			return Move{}, err
		}
		if kind == King {
			return Move{}, fmt.Errorf("invalid drop move: %s", token)
		}
		to, err := ParseUSISquare(parts[1])
		if err != nil {
			return Move{}, err
		}
		return Drop(kind, to), nil
	}
	if len(token) < 4 {
		return Move{}, fmt.Errorf("invalid move: %s", token)
	}
	from, err := ParseUSISquare(token[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseUSISquare(token[2:4])
	if err != nil {
		return Move{}, err
	}
	promote := false
	if len(token) > 4 {
		if token[4:] != "+" {
			return Move{}, fmt.Errorf("invalid promotion marker: %s", token)
		}
		promote = true
	}
	return Relocate(from, to, promote), nil
}

// ParseUSISquare decodes a two-character square like "7g".
func ParseUSISquare(text string) (Square, error) {
	if len(text) != 2 {
		return Square{}, fmt.Errorf("invalid square: %s", text)
	}
	file := int(text[0] - '0')
	rank := int(text[1]-'a') + 1
	sq, err := NewSquare(file, rank)
	if err != nil {
		return Square{}, fmt.Errorf("invalid square %q: %w", text, err)
	}
	return sq, nil
}

// USI formats the move as a USI token. The Move String form already is the
// USI encoding; this name exists for symmetry with ParseUSIMove.
func (m Move) USI() string { return m.String() }
