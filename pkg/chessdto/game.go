package chessdto

// GameView is the public shape of a live game.
type GameView struct {
	Channel    string            `json:"channel,omitempty"`
	White      string            `json:"white"`
	Black      string            `json:"black"`
	SideToMove string            `json:"side_to_move"`
	Moves      []string          `json:"moves"`
	Discarded  []string          `json:"discarded"`
	Board      map[string]string `json:"board"`
	Rows       []string          `json:"rows"`
	FEN        string            `json:"fen"`
}

// MovesView lists the destinations of the piece on Square.
type MovesView struct {
	Square  string   `json:"square"`
	Piece   string   `json:"piece,omitempty"`
	Targets []string `json:"targets"`
}

// ChannelList enumerates channels with a live game.
type ChannelList struct {
	Channels []string `json:"channels"`
}
