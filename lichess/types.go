package lichess

// Event is one line of the account event stream.
type Event struct {
	Type      string     `json:"type"`
	Game      *GameRef   `json:"game,omitempty"`
	Challenge *Challenge `json:"challenge,omitempty"`
}

type GameRef struct {
	ID string `json:"id"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Title  string `json:"title,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

type Variant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type TimeControl struct {
	Type      string `json:"type"`
	Limit     int    `json:"limit,omitempty"`
	Increment int    `json:"increment,omitempty"`
}

type Challenge struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Challenger  User        `json:"challenger"`
	DestUser    *User       `json:"destUser,omitempty"`
	Variant     Variant     `json:"variant"`
	Rated       bool        `json:"rated"`
	Speed       string      `json:"speed"`
	TimeControl TimeControl `json:"timeControl"`
}

// Clock values are in milliseconds.
type Clock struct {
	Initial   int64 `json:"initial"`
	Increment int64 `json:"increment"`
}

// GameState is sent after every move. Times are milliseconds.
type GameState struct {
	Type   string `json:"type"`
	Moves  string `json:"moves"`
	WTime  int64  `json:"wtime"`
	BTime  int64  `json:"btime"`
	WInc   int64  `json:"winc"`
	BInc   int64  `json:"binc"`
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
}

// GameFull opens every game stream.
type GameFull struct {
	ID         string    `json:"id"`
	Variant    Variant   `json:"variant"`
	Clock      *Clock    `json:"clock,omitempty"`
	Speed      string    `json:"speed"`
	Rated      bool      `json:"rated"`
	White      User      `json:"white"`
	Black      User      `json:"black"`
	InitialFEN string    `json:"initialFen"`
	State      GameState `json:"state"`
}

type ChatLine struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Room     string `json:"room"`
}

// GameEvent is one line of a game stream; exactly one of the pointers is
// set, matching Type.
type GameEvent struct {
	Type  string
	Full  *GameFull
	State *GameState
	Chat  *ChatLine
}

const (
	EventGameStart  = "gameStart"
	EventGameFinish = "gameFinish"
	EventChallenge  = "challenge"

	GameEventFull  = "gameFull"
	GameEventState = "gameState"
	GameEventChat  = "chatLine"
)

// Running reports whether a game state still expects moves.
func (s *GameState) Running() bool {
	return s.Status == "" || s.Status == "started" || s.Status == "created"
}
