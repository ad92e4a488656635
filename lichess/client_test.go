package lichess

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/gambit/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

const eventStream = `{"type":"challenge","challenge":{"id":"c1","status":"created","challenger":{"id":"bob","name":"Bob"},"variant":{"key":"standard","name":"Standard"},"rated":false,"speed":"blitz","timeControl":{"type":"clock","limit":300,"increment":3}}}

{}
{"type":"gameStart","game":{"id":"g1"}}
not json at all
`

const gameStream = `{"type":"gameFull","id":"g1","variant":{"key":"standard","name":"Standard"},"clock":{"initial":300000,"increment":3000},"speed":"blitz","white":{"id":"gambitbot","name":"GambitBot"},"black":{"id":"bob","name":"Bob"},"initialFen":"startpos","state":{"type":"gameState","moves":"","wtime":300000,"btime":300000,"winc":3000,"binc":3000,"status":"started"}}

{"type":"gameState","moves":"e2e4 e7e5","wtime":298000,"btime":297000,"winc":3000,"binc":3000,"status":"started"}
{"type":"chatLine","username":"bob","text":"hi","room":"player"}
{"type":"opponentGone","gone":true}
`

func TestStreamEvents(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/api/stream/event")
		is.Equal(r.Header.Get("Authorization"), "Bearer tok")
		fmt.Fprint(w, eventStream)
	}))
	defer srv.Close()

	var events []*Event
	err := NewClient(srv.URL+"/", "tok").StreamEvents(context.Background(), func(e *Event) error {
		events = append(events, e)
		return nil
	})
	is.NoErr(err)
	is.Equal(len(events), 2)
	is.Equal(events[0].Type, EventChallenge)
	is.Equal(events[0].Challenge.ID, "c1")
	is.Equal(events[0].Challenge.Variant.Key, "standard")
	is.Equal(events[0].Challenge.TimeControl.Type, "clock")
	is.Equal(events[1].Type, EventGameStart)
	is.Equal(events[1].Game.ID, "g1")
}

func TestStreamGame(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.URL.Path, "/api/bot/game/stream/g1")
		fmt.Fprint(w, gameStream)
	}))
	defer srv.Close()

	var events []*GameEvent
	err := NewClient(srv.URL, "tok").StreamGame(context.Background(), "g1", func(e *GameEvent) error {
		events = append(events, e)
		return nil
	})
	is.NoErr(err)
	is.Equal(len(events), 4)

	full := events[0].Full
	is.Equal(full.White.ID, "gambitbot")
	is.Equal(full.InitialFEN, "startpos")
	is.Equal(full.Clock.Initial, int64(300000))
	is.True(full.State.Running())

	is.Equal(events[1].State.Moves, "e2e4 e7e5")
	is.Equal(events[1].State.BTime, int64(297000))
	is.Equal(events[2].Chat.Text, "hi")
	// Unknown types are passed on bare.
	is.Equal(events[3].Type, "opponentGone")
	is.True(events[3].Full == nil && events[3].State == nil && events[3].Chat == nil)
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gameStream)
	}))
	defer srv.Close()

	stop := errors.New("stop")
	n := 0
	err := NewClient(srv.URL, "tok").StreamGame(context.Background(), "g1", func(e *GameEvent) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestStreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "bad").StreamEvents(context.Background(), func(*Event) error { return nil })
	var se *StatusError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestMakeMoveRetries(t *testing.T) {
	is := is.New(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodPost)
		is.Equal(r.URL.Path, "/api/bot/game/g1/move/e7e8q")
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	c.SetRetryDelay(time.Millisecond)
	m, err := move.FromString("e7e8q")
	is.NoErr(err)
	is.NoErr(c.MakeMove(context.Background(), "g1", m))
	is.Equal(calls.Load(), int32(3))
}

func TestMakeMoveClientErrorIsFinal(t *testing.T) {
	is := is.New(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"Not your turn"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	c.SetRetryDelay(time.Millisecond)
	err := c.MakeMove(context.Background(), "g1", move.Move{})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "Not your turn"))
	is.Equal(calls.Load(), int32(1))
}

func TestChallengeAndGameActions(t *testing.T) {
	is := is.New(t)
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodPost)
		paths = append(paths, r.URL.Path)
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL, "tok")
	is.NoErr(c.AcceptChallenge(ctx, "c1"))
	is.NoErr(c.DeclineChallenge(ctx, "c2"))
	is.NoErr(c.Abort(ctx, "g1"))
	is.NoErr(c.Resign(ctx, "g2"))
	is.Equal(paths, []string{
		"/api/challenge/c1/accept",
		"/api/challenge/c2/decline",
		"/api/bot/game/g1/abort",
		"/api/bot/game/g2/resign",
	})
}
