package bot

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/gambit/board"
	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/search"
	"github.com/domino14/gambit/turnplayer"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func testBot(t *testing.T) *Bot {
	t.Helper()
	p, err := turnplayer.NewTurnPlayerWithOptions(search.Options{
		ShallowPlies: 1, DeepPlies: 3, Time: 5 * time.Second, DeepFraction: 0.5,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewBot(config.DefaultConfig(), p)
}

func TestDeserialize(t *testing.T) {
	is := is.New(t)
	bot := testBot(t)
	g, err := bot.Deserialize([]byte(`{"gameId":"x1","moves":"e2e4 e7e5","timeLeftMs":30000}`))
	is.NoErr(err)
	is.Equal(g.ID, "x1")
	is.Equal(g.InitialBoard, board.StartingBoard())
	is.Equal(g.MySide, chess.White)
	is.Equal(g.TimeLeft, 30*time.Second)

	g, err = bot.Deserialize([]byte(`{"gameId":"x2","fen":"4k3/8/8/8/8/8/8/4K2R w K - 0 1","side":"b"}`))
	is.NoErr(err)
	is.Equal(g.MySide, chess.Black)

	_, err = bot.Deserialize([]byte(`{"side":"purple"}`))
	is.True(err != nil)
	_, err = bot.Deserialize([]byte(`not json`))
	is.True(err != nil)
}

func TestHandleMove(t *testing.T) {
	is := is.New(t)
	bot := testBot(t)
	resp := bot.handle(context.Background(),
		[]byte(`{"gameId":"mate","fen":"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"}`))
	is.Equal(resp.Error, "")
	is.Equal(resp.GameID, "mate")
	is.Equal(resp.Move, "a1a8")
	// Mate scores are infinite and left out.
	is.Equal(resp.Score, 0.0)

	data, err := json.Marshal(resp)
	is.NoErr(err)
	m, err := parseResponse(data)
	is.NoErr(err)
	is.Equal(m.String(), "a1a8")
}

func TestHandleErrors(t *testing.T) {
	is := is.New(t)
	bot := testBot(t)
	for _, req := range []string{
		// Replay checks occupancy and ownership, not how pieces move.
		`{"gameId":"bad","moves":"e3e4"}`,
		`{"gameId":"side","moves":"e2e4","side":"white"}`,
		`{"gameId":"mated","fen":"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"}`,
		`{"gameId":"stale","fen":"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"}`,
	} {
		resp := bot.handle(context.Background(), []byte(req))
		is.True(resp.Error != "")
		is.Equal(resp.Move, "")
		data, _ := json.Marshal(resp)
		_, err := parseResponse(data)
		is.True(err != nil)
	}
}

func TestMakeRequest(t *testing.T) {
	is := is.New(t)
	g := game.NewGame("r1", board.StartingBoard(), "d2d4", chess.Black)
	data, err := MakeRequest(g)
	is.NoErr(err)
	req := Request{}
	is.NoErr(json.Unmarshal(data, &req))
	is.Equal(req.Side, "black")
	is.Equal(req.Moves, "d2d4")
	is.True(strings.HasPrefix(req.FEN, "rnbqkbnr/pppppppp"))

	// What the client sends, the bot reads back.
	back, err := testBot(t).Deserialize(data)
	is.NoErr(err)
	is.Equal(back.InitialBoard, g.InitialBoard)
	is.Equal(back.MySide, chess.Black)
}

type stubPlayer struct{ err error }

func (s stubPlayer) Decide(context.Context, *game.Game) (*turnplayer.Decision, error) {
	return nil, s.err
}

func TestHandlePlayerError(t *testing.T) {
	is := is.New(t)
	bot := NewBot(config.DefaultConfig(), stubPlayer{err: search.ErrNoLegalMoves})
	resp := bot.handle(context.Background(), []byte(`{"gameId":"g"}`))
	is.True(strings.Contains(resp.Error, search.ErrNoLegalMoves.Error()))
}

func TestDecisionFromResponse(t *testing.T) {
	is := is.New(t)
	const pos = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	b, err := fen.Parse(pos)
	is.NoErr(err)
	g := game.NewGame("mate", b, "", chess.White)

	data, err := MakeRequest(g)
	is.NoErr(err)
	resp := testBot(t).handle(context.Background(), data)
	data, err = json.Marshal(resp)
	is.NoErr(err)

	d, err := decisionFrom(data, g)
	is.NoErr(err)
	is.Equal(d.GameID, "mate")
	is.Equal(d.FEN, pos)
	is.Equal(d.Move.String(), "a1a8")
	is.True(len(d.Line) >= 1)
	is.Equal(d.Line[0], d.Move)

	_, err = decisionFrom([]byte(`{"gameId":"mate","error":"no legal moves"}`), g)
	is.True(err != nil)
	_, err = decisionFrom([]byte(`{"gameId":"mate","move":"a1a8","line":"a1a8 zz"}`), g)
	is.True(err != nil)
}
