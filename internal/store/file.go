package store

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/park285/Cheese-IRC-bot/internal/chess"
)

// File keeps one "{white}_{black}" file per game under a directory.
type File struct {
	fs   chess.FileStore
	opts []chess.Option
}

func NewFile(dir string, opts ...chess.Option) *File {
	return &File{fs: chess.FileStore{Dir: dir}, opts: opts}
}

func (s *File) Path(white, black string) string { return s.fs.Path(white, black) }

func (s *File) Save(ctx context.Context, g *chess.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Save(g); err != nil {
		return fmt.Errorf("file save: %w", err)
	}
	return nil
}

func (s *File) Load(ctx context.Context, white, black string) (*chess.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, ok := s.fs.Load(white, black, s.opts...)
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// GamesFor scans the save directory for files naming the player. Files that
// do not decode are skipped.
func (s *File) GamesFor(ctx context.Context, player string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := s.fs.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("file list: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !involves(e.Name(), player) {
			continue
		}
		white, black, _ := strings.Cut(e.Name(), "_")
		if _, ok := s.fs.Load(white, black, s.opts...); ok {
			keys = append(keys, e.Name())
		}
	}
	slices.Sort(keys)
	return keys, nil
}
