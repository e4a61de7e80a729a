package chessdto

import "time"

// SnapshotView is one archived save.
type SnapshotView struct {
	ID        string            `json:"id"`
	White     string            `json:"white"`
	Black     string            `json:"black"`
	Moves     []string          `json:"moves"`
	Discarded []string          `json:"discarded"`
	Board     map[string]string `json:"board"`
	FEN       string            `json:"fen"`
	SavedAt   time.Time         `json:"saved_at"`
}
