package bot

// Request asks the bot for a move. Side is "white" or "black" (or "w"/"b");
// an empty side means whoever is to move after Moves.
type Request struct {
	GameID string `json:"gameId"`
	FEN    string `json:"fen"`
	Moves  string `json:"moves"`
	Side   string `json:"side"`
	// TimeLeftMs is the requester's remaining clock, 0 if untimed.
	TimeLeftMs int64 `json:"timeLeftMs,omitempty"`
}

// Response carries either a move or an error.
type Response struct {
	GameID string  `json:"gameId"`
	Move   string  `json:"move,omitempty"`
	Line   string  `json:"line,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Error  string  `json:"error,omitempty"`
}
