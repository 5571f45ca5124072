package shogi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Score is a USI evaluation: centipawns or moves-to-mate, from the side to
// move of the evaluated position, normalized to Black's perspective by
// Evaluate.
type Score struct {
	Kind  string // "cp" or "mate"
	Value int
}

func (s Score) String() string {
	switch s.Kind {
	case "cp", "mate":
		return fmt.Sprintf("%s %d", s.Kind, s.Value)
	default:
		return "unknown"
	}
}

type engineEventType int

const (
	engineEventUnknown engineEventType = iota
	engineEventUSIOK
	engineEventReadyOK
	engineEventInfo
	engineEventBestMove
)

type engineEvent struct {
	typ  engineEventType
	move string
	raw  string
}

// EngineSession drives an external USI engine subprocess. The engine is the
// search/AI collaborator; this module only speaks the protocol.
type EngineSession struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	events chan engineEvent
	errCh  chan error

	mu     sync.Mutex
	closed bool
}

// StartEngine launches the engine binary and begins reading its stdout.
func StartEngine(ctx context.Context, path string, args ...string) (*EngineSession, error) {
	if path == "" {
		return nil, errors.New("engine path is required")
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = filepath.Dir(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	s := &EngineSession{
		cmd:    cmd,
		stdin:  stdin,
		events: make(chan engineEvent, 64),
		errCh:  make(chan error, 1),
	}
	go s.readLoop(stdout)
	return s, nil
}

func (s *EngineSession) readLoop(stdout io.Reader) {
	defer close(s.events)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		s.events <- parseEngineLine(scanner.Text())
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case s.errCh <- err:
	default:
	}
}

func parseEngineLine(line string) engineEvent {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engineEvent{typ: engineEventUnknown, raw: line}
	}
	switch fields[0] {
	case "usiok":
		return engineEvent{typ: engineEventUSIOK}
	case "readyok":
		return engineEvent{typ: engineEventReadyOK}
	case "bestmove":
		if len(fields) < 2 {
			return engineEvent{typ: engineEventUnknown, raw: line}
		}
		return engineEvent{typ: engineEventBestMove, move: fields[1]}
	case "info":
		return engineEvent{typ: engineEventInfo, raw: line}
	default:
		return engineEvent{typ: engineEventUnknown, raw: line}
	}
}

func (s *EngineSession) send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("engine is closed")
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(s.stdin, line)
	return err
}

// Handshake runs the usi/isready exchange with single-thread options.
func (s *EngineSession) Handshake(ctx context.Context) error {
	if err := s.send("usi"); err != nil {
		return err
	}
	if err := s.waitFor(ctx, engineEventUSIOK); err != nil {
		return err
	}
	if err := s.send("setoption name Threads value 1"); err != nil {
		return err
	}
	if err := s.send("isready"); err != nil {
		return err
	}
	return s.waitFor(ctx, engineEventReadyOK)
}

// Evaluate runs a bounded movetime search on the position and returns the
// last reported score, flipped to Black's perspective, plus the best move.
func (s *EngineSession) Evaluate(ctx context.Context, pos *Position, moveNumber, moveTimeMs int) (Score, string, error) {
	sfen := pos.SFEN(moveNumber)
	if err := s.send("position sfen " + sfen); err != nil {
		return Score{}, "", err
	}
	if moveTimeMs <= 0 {
		moveTimeMs = 1
	}
	if err := s.send(fmt.Sprintf("go movetime %d", moveTimeMs)); err != nil {
		return Score{}, "", err
	}

	var score Score
	haveScore := false
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return Score{}, "", err
		}
		switch event.typ {
		case engineEventInfo:
			if parsed, ok := parseInfoScore(event.raw); ok {
				score = parsed
				haveScore = true
			}
		case engineEventBestMove:
			if !haveScore {
				return Score{}, event.move, errors.New("no score in engine output")
			}
			if pos.Turn() == White {
				score.Value = -score.Value
			}
			return score, event.move, nil
		}
	}
}

func parseInfoScore(line string) (Score, bool) {
	fields := strings.Fields(line)
	for i := 0; i+2 < len(fields); i++ {
		if fields[i] != "score" {
			continue
		}
		kind := fields[i+1]
		if kind != "cp" && kind != "mate" {
			return Score{}, false
		}
		value, err := strconv.Atoi(fields[i+2])
		if err != nil {
			return Score{}, false
		}
		return Score{Kind: kind, Value: value}, true
	}
	return Score{}, false
}

func (s *EngineSession) waitFor(ctx context.Context, want engineEventType) error {
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return err
		}
		if event.typ == want {
			return nil
		}
	}
}

func (s *EngineSession) nextEvent(ctx context.Context) (engineEvent, error) {
	select {
	case <-ctx.Done():
		return engineEvent{}, ctx.Err()
	case err := <-s.errCh:
		return engineEvent{}, fmt.Errorf("engine stdout: %w", err)
	case event, ok := <-s.events:
		if !ok {
			return engineEvent{}, errors.New("engine stdout closed")
		}
		return event, nil
	}
}

// Close sends quit and waits briefly for the process to exit.
func (s *EngineSession) Close() error {
	if s == nil || s.cmd == nil {
		return nil
	}
	_ = s.send("quit")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		_ = s.cmd.Process.Kill()
		return errors.New("engine did not exit in time")
	}
}
