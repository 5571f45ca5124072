package shogi

import (
	"encoding/binary"
	"fmt"
)

// Packed256 is a fixed 256-bit encoding of a Position: turn bit, both king
// squares, a prefix-coded scan of the remaining 79 squares, then the hands.
// Any position reachable from the standard setup fits exactly.
type Packed256 struct {
	Words [4]uint64
}

// Bytes returns the little-endian byte form, for storage.
func (p Packed256) Bytes() []byte {
	out := make([]byte, 32)
	for i, w := range p.Words {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	return out
}

// Packed256FromBytes rebuilds the packed form from 32 bytes.
func Packed256FromBytes(data []byte) (Packed256, error) {
	if len(data) != 32 {
		return Packed256{}, fmt.Errorf("packed position must be 32 bytes, got %d", len(data))
	}
	var p Packed256
	for i := range p.Words {
		p.Words[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return p, nil
}

// pieceCode is one prefix-code table entry. Empty squares and pawns get the
// shortest codes; rare kinds the longest.
type pieceCode struct {
	kind    Kind
	bits    uint64
	bitLen  int
	isEmpty bool
}

var boardPieceCodes = []pieceCode{
	{kind: "", bits: 0b0, bitLen: 1, isEmpty: true},
	{kind: Pawn, bits: 0b01, bitLen: 2},
	{kind: Lance, bits: 0b0011, bitLen: 4},
	{kind: Knight, bits: 0b1011, bitLen: 4},
	{kind: Silver, bits: 0b0111, bitLen: 4},
	{kind: Gold, bits: 0b01111, bitLen: 5},
	{kind: Bishop, bits: 0b011111, bitLen: 6},
	{kind: Rook, bits: 0b111111, bitLen: 6},
}

var handPieceCodes = []pieceCode{
	{kind: Pawn, bits: 0b0, bitLen: 1},
	{kind: Lance, bits: 0b001, bitLen: 3},
	{kind: Knight, bits: 0b101, bitLen: 3},
	{kind: Silver, bits: 0b011, bitLen: 3},
	{kind: Gold, bits: 0b0111, bitLen: 4},
	{kind: Bishop, bits: 0b01111, bitLen: 5},
	{kind: Rook, bits: 0b11111, bitLen: 5},
}

type pieceCodeBook struct {
	byLen  map[int]map[uint64]pieceCode
	byKind map[Kind]pieceCode
	empty  pieceCode
	maxLen int
}

var (
	boardCodeBook = newPieceCodeBook(boardPieceCodes)
	handCodeBook  = newPieceCodeBook(handPieceCodes)
)

func newPieceCodeBook(codes []pieceCode) pieceCodeBook {
	book := pieceCodeBook{
		byLen:  map[int]map[uint64]pieceCode{},
		byKind: map[Kind]pieceCode{},
	}
	for _, code := range codes {
		if book.byLen[code.bitLen] == nil {
			book.byLen[code.bitLen] = map[uint64]pieceCode{}
		}
		book.byLen[code.bitLen][code.bits] = code
		if code.isEmpty {
			book.empty = code
		} else {
			book.byKind[code.kind] = code
		}
		if code.bitLen > book.maxLen {
			book.maxLen = code.bitLen
		}
	}
	return book
}

// Pack encodes the position into its 256-bit form. It fails when a king is
// missing or a hand holds a king.
func (p *Position) Pack() (Packed256, error) {
	w := &bitWriter{}

	turnBit := uint64(0)
	if p.turn == White {
		turnBit = 1
	}
	if err := w.writeBits(turnBit, 1); err != nil {
		return Packed256{}, err
	}

	blackKing, err := p.KingSquare(Black)
	if err != nil {
		return Packed256{}, err
	}
	whiteKing, err := p.KingSquare(White)
	if err != nil {
		return Packed256{}, err
	}
	blackIdx := squareIndex(blackKing)
	whiteIdx := squareIndex(whiteKing)
	if err := w.writeBits(uint64(blackIdx), 7); err != nil {
		return Packed256{}, err
	}
	if err := w.writeBits(uint64(whiteIdx), 7); err != nil {
		return Packed256{}, err
	}

	for idx := 0; idx < 81; idx++ {
		if idx == blackIdx || idx == whiteIdx {
			continue
		}
		piece := p.pieceRef(indexSquare(idx))
		if piece == nil {
			if err := w.writeBits(boardCodeBook.empty.bits, boardCodeBook.empty.bitLen); err != nil {
				return Packed256{}, err
			}
			continue
		}
		if piece.Kind == King {
			return Packed256{}, fmt.Errorf("extra king at %s", indexSquare(idx))
		}
		if err := w.writePiece(boardCodeBook, piece.Kind, piece.Color, piece.Promoted); err != nil {
			return Packed256{}, err
		}
	}

	for _, color := range []Color{Black, White} {
		for _, kind := range []Kind{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook} {
			for i := 0; i < p.hands[color][kind]; i++ {
				if err := w.writePiece(handCodeBook, kind, color, false); err != nil {
					return Packed256{}, err
				}
			}
		}
	}

	if w.pos != 256 {
		return Packed256{}, fmt.Errorf("packed length is %d bits, expected 256", w.pos)
	}
	return Packed256{Words: w.words}, nil
}

// UnpackPosition decodes a 256-bit packed position.
func UnpackPosition(packed Packed256) (*Position, error) {
	r := &bitReader{words: packed.Words}

	turnBit, err := r.readBits(1)
	if err != nil {
		return nil, err
	}
	blackIdx, err := r.readBits(7)
	if err != nil {
		return nil, err
	}
	whiteIdx, err := r.readBits(7)
	if err != nil {
		return nil, err
	}
	if blackIdx == whiteIdx {
		return nil, fmt.Errorf("kings share square index %d", blackIdx)
	}
	if blackIdx >= 81 || whiteIdx >= 81 {
		return nil, fmt.Errorf("king square index out of range")
	}

	pos := NewPosition()
	if turnBit == 1 {
		pos.turn = White
	}
	pos.setPiece(indexSquare(int(blackIdx)), &Piece{Kind: King, Color: Black})
	pos.setPiece(indexSquare(int(whiteIdx)), &Piece{Kind: King, Color: White})

	for idx := 0; idx < 81; idx++ {
		if idx == int(blackIdx) || idx == int(whiteIdx) {
			continue
		}
		code, err := r.readCode(boardCodeBook)
		if err != nil {
			return nil, err
		}
		if code.isEmpty {
			continue
		}
		color, promoted, err := r.readPieceState(code.kind)
		if err != nil {
			return nil, err
		}
		pos.setPiece(indexSquare(idx), &Piece{Kind: code.kind, Color: color, Promoted: promoted})
	}

	for r.pos < 256 {
		code, err := r.readCode(handCodeBook)
		if err != nil {
			return nil, err
		}
		color, promoted, err := r.readPieceState(code.kind)
		if err != nil {
			return nil, err
		}
		if promoted {
			return nil, fmt.Errorf("promoted piece in hand: %s", code.kind)
		}
		if err := pos.AddToHand(color, code.kind, 1); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

func squareIndex(sq Square) int {
	return (sq.Rank-1)*9 + (sq.File - 1)
}

func indexSquare(idx int) Square {
	return Square{File: idx%9 + 1, Rank: idx/9 + 1}
}

type bitWriter struct {
	words [4]uint64
	pos   int
}

func (w *bitWriter) writeBits(value uint64, bitLen int) error {
	for i := 0; i < bitLen; i++ {
		if w.pos >= 256 {
			return fmt.Errorf("bitstream overflow")
		}
		if (value>>i)&1 != 0 {
			w.words[w.pos/64] |= 1 << uint(w.pos%64)
		}
		w.pos++
	}
	return nil
}

func (w *bitWriter) writePiece(book pieceCodeBook, kind Kind, color Color, promoted bool) error {
	code, ok := book.byKind[kind]
	if !ok {
		return fmt.Errorf("unknown piece code: %s", kind)
	}
	if err := w.writeBits(code.bits, code.bitLen); err != nil {
		return err
	}
	colorBit := uint64(0)
	if color == White {
		colorBit = 1
	}
	if err := w.writeBits(colorBit, 1); err != nil {
		return err
	}
	if kind.Promotable() {
		promoBit := uint64(0)
		if promoted {
			promoBit = 1
		}
		return w.writeBits(promoBit, 1)
	}
	return nil
}

type bitReader struct {
	words [4]uint64
	pos   int
}

func (r *bitReader) readBits(bitLen int) (uint64, error) {
	var value uint64
	for i := 0; i < bitLen; i++ {
		if r.pos >= 256 {
			return 0, fmt.Errorf("bitstream underflow")
		}
		bit := (r.words[r.pos/64] >> uint(r.pos%64)) & 1
		value |= bit << i
		r.pos++
	}
	return value, nil
}

func (r *bitReader) readCode(book pieceCodeBook) (pieceCode, error) {
	var value uint64
	for length := 1; length <= book.maxLen; length++ {
		bit, err := r.readBits(1)
		if err != nil {
			return pieceCode{}, err
		}
		value |= bit << (length - 1)
		if entry, ok := book.byLen[length][value]; ok {
			return entry, nil
		}
	}
	return pieceCode{}, fmt.Errorf("invalid piece code")
}

func (r *bitReader) readPieceState(kind Kind) (Color, bool, error) {
	colorBit, err := r.readBits(1)
	if err != nil {
		return Black, false, err
	}
	color := Black
	if colorBit == 1 {
		color = White
	}
	if !kind.Promotable() {
		return color, false, nil
	}
	promoBit, err := r.readBits(1)
	if err != nil {
		return Black, false, err
	}
	return color, promoBit == 1, nil
}
