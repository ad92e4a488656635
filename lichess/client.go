// Package lichess talks to the lichess bot API: the account event stream,
// per-game streams, challenges and moves.
package lichess

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/move"
)

// StatusError is a non-200 answer from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Attempts is how many times a move is posted before giving up.
const Attempts = 4

// Client is a bearer-authenticated lichess API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retryDelay time.Duration
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		retryDelay: 200 * time.Millisecond,
	}
}

// SetRetryDelay changes the base backoff delay for move posting.
func (c *Client) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// readLines calls fn with every NDJSON line of body until it ends, fn
// fails or ctx is done. Keep-alive lines are skipped.
func readLines(ctx context.Context, body io.Reader, fn func([]byte) error) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) <= 2 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// StreamEvents reads the account event stream, calling fn for each event,
// until the stream closes or ctx is done. Lines that do not parse are
// logged and skipped.
func (c *Client) StreamEvents(ctx context.Context, fn func(*Event) error) error {
	resp, err := c.do(ctx, http.MethodGet, "api/stream/event")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return readLines(ctx, resp.Body, func(line []byte) error {
		evt := &Event{}
		if err := json.Unmarshal(line, evt); err != nil {
			log.Warn().Err(err).Str("line", string(line)).Msg("bad-event-line")
			return nil
		}
		return fn(evt)
	})
}

// ParseGameEvent decodes one game stream line.
func ParseGameEvent(line []byte) (*GameEvent, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return nil, err
	}
	evt := &GameEvent{Type: head.Type}
	var target any
	switch head.Type {
	case GameEventFull:
		evt.Full = &GameFull{}
		target = evt.Full
	case GameEventState:
		evt.State = &GameState{}
		target = evt.State
	case GameEventChat:
		evt.Chat = &ChatLine{}
		target = evt.Chat
	default:
		return evt, nil
	}
	if err := json.Unmarshal(line, target); err != nil {
		return nil, err
	}
	return evt, nil
}

// StreamGame reads the stream of one game.
func (c *Client) StreamGame(ctx context.Context, gameID string, fn func(*GameEvent) error) error {
	resp, err := c.do(ctx, http.MethodGet, "api/bot/game/stream/"+gameID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return readLines(ctx, resp.Body, func(line []byte) error {
		evt, err := ParseGameEvent(line)
		if err != nil {
			log.Warn().Err(err).Str("game", gameID).Str("line", string(line)).Msg("bad-game-line")
			return nil
		}
		return fn(evt)
	})
}

// MakeMove posts a move, retrying with backoff. A 4xx answer is final.
func (c *Client) MakeMove(ctx context.Context, gameID string, m move.Move) error {
	path := fmt.Sprintf("api/bot/game/%s/move/%s", gameID, m.String())
	return retry.Do(
		func() error {
			err := c.post(ctx, path)
			if err != nil && isClientError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(Attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("game", gameID).Msg("move-post-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
}

func (c *Client) AcceptChallenge(ctx context.Context, id string) error {
	return c.post(ctx, "api/challenge/"+id+"/accept")
}

func (c *Client) DeclineChallenge(ctx context.Context, id string) error {
	return c.post(ctx, "api/challenge/"+id+"/decline")
}

func (c *Client) Abort(ctx context.Context, gameID string) error {
	return c.post(ctx, "api/bot/game/"+gameID+"/abort")
}

func (c *Client) Resign(ctx context.Context, gameID string) error {
	return c.post(ctx, "api/bot/game/"+gameID+"/resign")
}
