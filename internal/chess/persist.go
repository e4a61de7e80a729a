package chess

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Saves shorter than this cannot hold a JSON object worth decoding.
const minSaveLen = 3

type savedGame struct {
	Moves           []string          `json:"moves"`
	Board           map[Square]string `json:"board"`
	DiscardedPieces []string          `json:"discarded_pieces"`
	PlayerWhite     string            `json:"player_white"`
	PlayerBlack     string            `json:"player_black"`
}

// Marshal encodes the full game, board keys as square indices and pieces by name.
func Marshal(g *GameState) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot encode nil game")
	}
	s := savedGame{
		Moves:           g.Moves(),
		Board:           make(map[Square]string, 32),
		DiscardedPieces: make([]string, 0, len(g.discarded)),
		PlayerWhite:     g.white,
		PlayerBlack:     g.black,
	}
	for _, sq := range g.Occupied() {
		s.Board[sq] = g.board[sq].Name()
	}
	for _, p := range g.discarded {
		s.DiscardedPieces = append(s.DiscardedPieces, p.Name())
	}
	return json.Marshal(&s)
}

// Unmarshal decodes a saved game. Too-short input, bad JSON, a missing board,
// bad player names, out-of-range squares and unknown piece names all fail
// with ErrBadSave.
func Unmarshal(data []byte, opts ...Option) (*GameState, error) {
	if len(data) < minSaveLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadSave, len(data))
	}
	var s savedGame
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	if s.Board == nil {
		return nil, fmt.Errorf("%w: no board", ErrBadSave)
	}
	if err := CheckPlayers(s.PlayerWhite, s.PlayerBlack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	g := newEmpty(s.PlayerWhite, s.PlayerBlack, opts...)
	if s.Moves != nil {
		g.moves = s.Moves
	}
	for sq, name := range s.Board {
		if !sq.Valid() {
			return nil, fmt.Errorf("%w: square %d", ErrBadSave, sq)
		}
		p, err := ParsePieceName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSave, err)
		}
		g.board[sq] = p
	}
	for _, name := range s.DiscardedPieces {
		p, err := ParsePieceName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSave, err)
		}
		g.discarded = append(g.discarded, p)
	}
	return g, nil
}

// FileStore keeps one file per game named "{white}_{black}" under Dir.
// An empty Dir means the working directory. Last writer wins.
type FileStore struct {
	Dir string
}

func (s FileStore) Path(white, black string) string {
	return filepath.Join(s.Dir, GameKey(white, black))
}

func (s FileStore) Save(g *GameState) error {
	if g == nil {
		return fmt.Errorf("cannot save nil game")
	}
	if err := CheckPlayers(g.white, g.black); err != nil {
		return err
	}
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(g.white, g.black), data, 0o644)
}

// Load returns false when the file is missing, unreadable, too short or corrupt;
// all of these mean "no prior game".
func (s FileStore) Load(white, black string, opts ...Option) (*GameState, bool) {
	if CheckPlayers(white, black) != nil {
		return nil, false
	}
	data, err := os.ReadFile(s.Path(white, black))
	if err != nil {
		return nil, false
	}
	g, err := Unmarshal(data, opts...)
	if err != nil {
		return nil, false
	}
	return g, true
}

// Save writes the game to "{white}_{black}" in the working directory.
func Save(g *GameState) error { return FileStore{}.Save(g) }

// Load reads "{white}_{black}" from the working directory.
func Load(white, black string, opts ...Option) (*GameState, bool) {
	return FileStore{}.Load(white, black, opts...)
}

// CheckPlayers rejects names that are empty or carry path syntax; player
// names end up in file names and store keys.
func CheckPlayers(names ...string) error {
	for _, n := range names {
		if strings.TrimSpace(n) == "" || strings.ContainsAny(n, `/\`) || n == "." || n == ".." {
			return fmt.Errorf("%w: %q", ErrBadPlayer, n)
		}
	}
	return nil
}
