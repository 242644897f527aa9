package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/4inarow/engine"
)

const (
	defaultAnalyzeTime = time.Second
	maxAnalyzeTime     = 10 * time.Second
)

// analyzePosition replays req.Moves, alternating from the first player, and
// asks a fresh engine for the side on turn.
func analyzePosition(req BotMoveRequest, base engine.Options) (engine.Statistics, string, error) {
	width, height := req.Width, req.Height
	if width == 0 && height == 0 {
		width, height = Cols, Rows
	}

	side := engine.First
	if len(req.Moves)%2 == 1 {
		side = engine.Second
	}

	opts := base
	opts.MaxTime = defaultAnalyzeTime
	if req.MaxTimeMs > 0 {
		opts.MaxTime = min(time.Duration(req.MaxTimeMs)*time.Millisecond, maxAnalyzeTime)
	}
	opts.BufferInitial = 0
	opts.BufferIncrement = 0

	e, err := engine.NewEngine(width, height, side, opts)
	if err != nil {
		return engine.Statistics{}, "", err
	}
	mover := engine.First
	for _, col := range req.Moves {
		if err := e.ApplyExternalMove(col, mover); err != nil {
			return engine.Statistics{}, e.String(), err
		}
		mover = mover.Opponent()
	}

	if _, err := e.DecideNextMove(); err != nil {
		return engine.Statistics{}, e.String(), err
	}
	return e.LastStats(), e.String(), nil
}

func (a *App) botMoveHandler(c *gin.Context) {
	var req BotMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, board, err := analyzePosition(req, a.EngineOpts)
	switch {
	case errors.Is(err, engine.ErrGameOver):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "board": board})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Debug().EmbedObject(st).Int("moves", len(req.Moves)).Msg("analyzed position")
	c.JSON(http.StatusOK, BotMoveResponse{
		Column:    st.Column,
		Depth:     st.Depth,
		Nodes:     st.Nodes,
		ElapsedMs: st.Elapsed.Milliseconds(),
		Book:      st.Book,
		Board:     board,
	})
}
