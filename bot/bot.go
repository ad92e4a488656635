package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/chess"
	"github.com/domino14/gambit/config"
	"github.com/domino14/gambit/fen"
	"github.com/domino14/gambit/game"
	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/turnplayer"
)

// Bot answers move requests arriving over NATS.
type Bot struct {
	config *config.Config
	player turnplayer.Player
}

func NewBot(cfg *config.Config, player turnplayer.Player) *Bot {
	return &Bot{config: cfg, player: player}
}

func errorResponse(gameID, message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{GameID: gameID, Error: msg}
}

// Deserialize turns a JSON request into a game record.
func (bot *Bot) Deserialize(data []byte) (*game.Game, error) {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	f := req.FEN
	if f == "" {
		f = fen.StartPos
	}
	b, err := fen.Parse(f)
	if err != nil {
		return nil, err
	}
	g := game.NewGame(req.GameID, b, req.Moves, chess.White)
	if req.Side == "" {
		replayed, err := g.Replay()
		if err != nil {
			return nil, err
		}
		g.MySide = replayed.Turn()
	} else {
		side, err := chess.ColourFromString(req.Side)
		if err != nil {
			return nil, err
		}
		g.MySide = side
	}
	g.TimeLeft = time.Duration(req.TimeLeftMs) * time.Millisecond
	return g, nil
}

func (bot *Bot) handle(ctx context.Context, data []byte) *Response {
	g, err := bot.Deserialize(data)
	if err != nil {
		return errorResponse("", "could not parse request", err)
	}
	d, err := bot.player.Decide(ctx, g)
	if err != nil {
		return errorResponse(g.ID, "no move available", err)
	}
	log.Info().Str("game", g.ID).Str("move", d.Move.String()).Msg("generated-move")
	resp := &Response{
		GameID: g.ID,
		Move:   d.Move.String(),
		Line:   move.Join(d.Line),
	}
	// JSON has no infinities.
	if !math.IsInf(d.Score, 0) {
		resp.Score = d.Score
	}
	return resp
}

// Main serves requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Int("bytes", len(m.Data)).Msg("recv")
		resp := bot.handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, but the requester still needs an answer.
			data = []byte(`{"error":` + fmt.Sprintf("%q", err.Error()) + `}`)
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")

	<-ctx.Done()
	if err := nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return err
	}
	return nil
}
