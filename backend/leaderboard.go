package main

import "context"

type LBRow struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

func (db *DB) QueryLeaderboard(ctx context.Context) ([]LBRow, error) {
	rows, err := db.Pool.Query(ctx, `SELECT winner AS username, COUNT(*) AS wins
		FROM games WHERE winner IS NOT NULL AND winner <> $1 GROUP BY winner ORDER BY wins DESC LIMIT 50`, BotName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
