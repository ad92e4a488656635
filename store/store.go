// Package store keeps a log of move decisions in a sqlite file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/gambit/move"
	"github.com/domino14/gambit/search"
	"github.com/domino14/gambit/turnplayer"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id          TEXT NOT NULL,
	fen              TEXT NOT NULL,
	move             TEXT NOT NULL,
	line             TEXT NOT NULL,
	score            REAL NOT NULL,
	nodes            INTEGER NOT NULL,
	leaves           INTEGER NOT NULL,
	max_depth        INTEGER NOT NULL,
	unique_positions INTEGER NOT NULL,
	elapsed_ms       INTEGER NOT NULL,
	decided_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS decisions_game_id ON decisions (game_id);
`

// Store is a turnplayer.Recorder backed by sqlite.
type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Info().Str("path", path).Msg("opened-decision-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, d *turnplayer.Decision) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (game_id, fen, move, line, score, nodes, leaves,
			max_depth, unique_positions, elapsed_ms, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.GameID, d.FEN, d.Move.String(), move.Join(d.Line), d.Score,
		d.Stats.Nodes, d.Stats.Leaves, d.Stats.MaxDepth, d.Stats.UniquePositions,
		d.Stats.Elapsed.Milliseconds(), d.DecidedAt.UnixMilli())
	return err
}

// ForGame returns the decisions made in a game, oldest first.
func (s *Store) ForGame(ctx context.Context, gameID string) ([]*turnplayer.Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, fen, move, line, score, nodes, leaves, max_depth,
			unique_positions, elapsed_ms, decided_at
		FROM decisions WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*turnplayer.Decision
	for rows.Next() {
		var (
			d                turnplayer.Decision
			mv, line         string
			elapsed, decided int64
			st               search.Stats
		)
		if err := rows.Scan(&d.GameID, &d.FEN, &mv, &line, &d.Score, &st.Nodes,
			&st.Leaves, &st.MaxDepth, &st.UniquePositions, &elapsed, &decided); err != nil {
			return nil, err
		}
		if d.Move, err = move.FromString(mv); err != nil {
			return nil, err
		}
		if d.Line, err = move.ParseMoves(line); err != nil {
			return nil, err
		}
		st.Elapsed = time.Duration(elapsed) * time.Millisecond
		d.Stats = st
		d.DecidedAt = time.UnixMilli(decided)
		out = append(out, &d)
	}
	return out, rows.Err()
}
