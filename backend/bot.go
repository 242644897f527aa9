package main

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/you/4inarow/engine"
)

// newBot creates the engine for a bot game, playing side.
func newBot(side engine.Side, opts engine.Options) *engine.Engine {
	e, err := engine.NewEngine(Cols, Rows, side, opts)
	if err != nil {
		panic(err)
	}
	return e
}

// chooseBotMove asks the engine for its move. The engine has seen every move
// of the game; if it cannot decide, any open column is played.
func chooseBotMove(g *Game) (int, engine.Statistics) {
	g.botMu.Lock()
	defer g.botMu.Unlock()

	col, err := g.bot.DecideNextMove()
	if err == nil {
		return col, g.bot.LastStats()
	}
	log.Err(err).Str("game", g.ID.String()).Msg("bot-decide-failed")

	open := lo.Filter(lo.Range(Cols), func(c int, _ int) bool { return !g.bot.Board().IsFull(c) })
	if len(open) == 0 {
		return 3, engine.Statistics{Column: 3}
	}
	col = open[frand.Intn(len(open))]
	return col, engine.Statistics{Column: col}
}

// mirrorMove records a move in the bot's own board.
func mirrorMove(g *Game, col int, side engine.Side) {
	if g.bot == nil {
		return
	}
	g.botMu.Lock()
	defer g.botMu.Unlock()
	if err := g.bot.ApplyExternalMove(col, side); err != nil {
		log.Err(err).Str("game", g.ID.String()).Int("col", col).Msg("bot-mirror-failed")
	}
}
