package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/you/4inarow/engine"
)

type DB struct{ Pool *pgxpool.Pool }

func MustOpenDB(dsn string) *DB {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		panic(err)
	}
	return &DB{Pool: pool}
}

func (db *DB) AutoMigrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id          UUID PRIMARY KEY,
			p1          TEXT NOT NULL,
			p2          TEXT NOT NULL,
			winner      TEXT,
			is_draw     BOOLEAN NOT NULL DEFAULT FALSE,
			moves       INT NOT NULL DEFAULT 0,
			final_board TEXT,
			started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ended_at    TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);
		CREATE TABLE IF NOT EXISTS bot_decisions (
			game_id      UUID NOT NULL,
			ply          INT NOT NULL,
			col          INT NOT NULL,
			depth        INT NOT NULL,
			book         BOOLEAN NOT NULL DEFAULT FALSE,
			nodes        BIGINT NOT NULL,
			elapsed_ms   BIGINT NOT NULL,
			cache_hits   BIGINT NOT NULL,
			cache_misses BIGINT NOT NULL,
			PRIMARY KEY (game_id, ply)
		);
	`)
	return err
}

func (a *App) PersistGame(g *Game) {
	if a.DB == nil {
		return
	}
	ctx := context.Background()
	_, err := a.DB.Pool.Exec(ctx, `
		INSERT INTO games (id, p1, p2, winner, is_draw, moves, final_board, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			winner      = EXCLUDED.winner,
			is_draw     = EXCLUDED.is_draw,
			moves       = EXCLUDED.moves,
			final_board = EXCLUDED.final_board,
			started_at  = EXCLUDED.started_at,
			ended_at    = EXCLUDED.ended_at
	`, g.ID, g.P1, g.P2, g.Winner, g.IsDraw, g.Board.MoveCount(), g.Board.String(), g.Started, g.Ended)
	if err != nil {
		log.Err(err).Str("game", g.ID.String()).Msg("persist-game")
	}
}

func (a *App) PersistDecision(g *Game, ply int, st engine.Statistics) {
	if a.DB == nil {
		return
	}
	ctx := context.Background()
	_, err := a.DB.Pool.Exec(ctx, `
		INSERT INTO bot_decisions (game_id, ply, col, depth, book, nodes, elapsed_ms, cache_hits, cache_misses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, ply) DO NOTHING
	`, g.ID, ply, st.Column, st.Depth, st.Book, int64(st.Nodes), st.Elapsed.Milliseconds(),
		int64(st.CacheHits), int64(st.CacheMiss))
	if err != nil {
		log.Err(err).Str("game", g.ID.String()).Int("ply", ply).Msg("persist-decision")
	}
}

type RecentGameRow struct {
	ID      string     `json:"id"`
	P1      string     `json:"p1"`
	P2      string     `json:"p2"`
	Winner  *string    `json:"winner,omitempty"`
	IsDraw  bool       `json:"is_draw"`
	Moves   int        `json:"moves"`
	Started time.Time  `json:"started"`
	Ended   *time.Time `json:"ended,omitempty"`
}

func (db *DB) QueryRecentGames(ctx context.Context, limit int) ([]RecentGameRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, p1, p2, winner, is_draw, moves, started_at, ended_at
		FROM games
		ORDER BY ended_at DESC NULLS LAST, started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentGameRow{}
	for rows.Next() {
		var r RecentGameRow
		if err := rows.Scan(&r.ID, &r.P1, &r.P2, &r.Winner, &r.IsDraw, &r.Moves, &r.Started, &r.Ended); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

type BotStatsRow struct {
	Decisions  int64   `json:"decisions"`
	AvgDepth   float64 `json:"avg_depth"`
	AvgElapsed float64 `json:"avg_elapsed_ms"`
	BookMoves  int64   `json:"book_moves"`
	TotalNodes int64   `json:"total_nodes"`
}

func (db *DB) QueryBotStats(ctx context.Context) (BotStatsRow, error) {
	var r BotStatsRow
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(depth), 0)::float8,
			COALESCE(AVG(elapsed_ms), 0)::float8,
			COUNT(*) FILTER (WHERE book),
			COALESCE(SUM(nodes), 0)::bigint
		FROM bot_decisions
	`).Scan(&r.Decisions, &r.AvgDepth, &r.AvgElapsed, &r.BookMoves, &r.TotalNodes)
	return r, err
}
