package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/turnplayer"
)

// RequestTimeout bounds a request when the context carries no deadline.
const RequestTimeout = 60 * time.Second

type Client struct {
	nc      *nats.Conn
	channel string
}

var _ turnplayer.Player = (*Client)(nil)

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

func MakeRequest(g *game.Game) ([]byte, error) {
	req := Request{
		GameID:     g.ID,
		FEN:        fen.String(&g.InitialBoard),
		Moves:      g.MovesPlayed,
		Side:       g.MySide.String(),
		TimeLeftMs: g.TimeLeft.Milliseconds(),
	}
	return json.Marshal(req)
}

// RequestMove sends a game to the bot and returns its move.
func (c *Client) RequestMove(ctx context.Context, g *game.Game) (move.Move, error) {
	data, err := c.roundTrip(ctx, g)
	if err != nil {
		return move.Move{}, err
	}
	return parseResponse(data)
}

// Decide makes a Client usable wherever an in-process player is, for
// instance to run puzzles against a bot on another machine. Search stats
// stay with the bot.
func (c *Client) Decide(ctx context.Context, g *game.Game) (*turnplayer.Decision, error) {
	data, err := c.roundTrip(ctx, g)
	if err != nil {
		return nil, err
	}
	return decisionFrom(data, g)
}

func (c *Client) roundTrip(ctx context.Context, g *game.Game) ([]byte, error) {
	data, err := MakeRequest(g)
	if err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
	}
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Err(c.nc.LastError()).Msg("nats-last-error")
		}
		return nil, err
	}
	log.Debug().Str("res", string(res.Data)).Msg("bot-response")
	return res.Data, nil
}

func unmarshalResponse(data []byte) (*Response, error) {
	resp := &Response{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	return resp, nil
}

func parseResponse(data []byte) (move.Move, error) {
	resp, err := unmarshalResponse(data)
	if err != nil {
		return move.Move{}, err
	}
	return move.FromString(resp.Move)
}

func decisionFrom(data []byte, g *game.Game) (*turnplayer.Decision, error) {
	resp, err := unmarshalResponse(data)
	if err != nil {
		return nil, err
	}
	m, err := move.FromString(resp.Move)
	if err != nil {
		return nil, err
	}
	line, err := move.ParseMoves(resp.Line)
	if err != nil {
		return nil, err
	}
	b, err := g.Replay()
	if err != nil {
		return nil, err
	}
	return &turnplayer.Decision{
		GameID:    g.ID,
		FEN:       fen.String(&b),
		Move:      m,
		Line:      line,
		Score:     resp.Score,
		DecidedAt: time.Now(),
	}, nil
}
