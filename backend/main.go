package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/you/4inarow/engine"
)

type App struct {
	Hub        *Hub
	DB         *DB
	Analytics  *Analytics
	EngineOpts engine.Options
}

func (a *App) HandleMove(username string, col int) {
	a.Hub.mu.Lock()
	gid, ok := a.Hub.playersInGame[username]
	if !ok {
		a.Hub.mu.Unlock()
		return
	}
	g := a.Hub.games[gid]
	side := g.sideOf(username)
	if g.Turn != side || g.Ended != nil {
		a.Hub.mu.Unlock()
		return
	}
	row, err := g.drop(col)
	if err != nil {
		a.Hub.mu.Unlock()
		log.Debug().Err(err).Str("player", username).Int("col", col).Msg("rejected move")
		return
	}
	a.Hub.mu.Unlock()

	mirrorMove(g, col, side)
	a.Analytics.Emit("move", map[string]any{"gameId": g.ID.String(), "by": username, "col": col, "row": row})

	if a.finishIfOver(g, username) {
		return
	}

	a.Hub.mu.Lock()
	g.switchTurn()
	botTurn := g.isBotTurn()
	a.Hub.mu.Unlock()
	a.BroadcastState(g)

	if botTurn {
		a.botMove(g)
	}
}

func (a *App) botMove(g *Game) {
	a.Hub.mu.RLock()
	botSide := g.Turn
	ply := g.Board.MoveCount()
	a.Hub.mu.RUnlock()

	// The search runs without the hub lock; only this game's bot is busy.
	col, st := chooseBotMove(g)

	a.Hub.mu.Lock()
	row, err := g.drop(col)
	a.Hub.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("game", g.ID.String()).Int("col", col).Msg("bot played an illegal move")
		return
	}
	mirrorMove(g, col, botSide)

	a.Analytics.Emit("move", map[string]any{"gameId": g.ID.String(), "by": BotName, "col": col, "row": row})
	a.Analytics.EmitDecision(g, ply, st)
	go a.PersistDecision(g, ply, st)

	if a.finishIfOver(g, BotName) {
		return
	}
	a.Hub.mu.Lock()
	g.switchTurn()
	a.Hub.mu.Unlock()
	a.BroadcastState(g)
}

// finishIfOver ends g when mover's last move won or filled the board.
func (a *App) finishIfOver(g *Game, mover string) bool {
	a.Hub.mu.Lock()
	var reason, winner string
	switch {
	case g.won():
		now := time.Now()
		g.Ended = &now
		g.Winner = &mover
		reason, winner = "win", mover
	case g.isFull():
		now := time.Now()
		g.Ended = &now
		g.IsDraw = true
		reason = "draw"
	default:
		a.Hub.mu.Unlock()
		return false
	}
	a.Hub.mu.Unlock()

	a.BroadcastState(g)

	go a.PersistGame(g)
	a.BroadcastEnd(g, reason, winner)
	a.Hub.RemoveGame(g.ID)
	return true
}

// startBotGame pairs p with the engine, which plays second.
func (a *App) startBotGame(p *Player) {
	g := newGame(p.Username, BotName)
	g.bot = newBot(engine.Second, a.EngineOpts)
	a.Hub.AddGame(g)

	log.Info().Str("game", g.ID.String()).Str("p1", g.P1).Str("p2", g.P2).Msg("created bot game")
	a.Analytics.Emit("match.start", map[string]any{"gameId": g.ID.String(), "p1": g.P1, "p2": g.P2})
	a.BroadcastState(g)
}

func (a *App) HandleRegame(username, mode string) {
	p := &Player{Username: username, Conn: a.Hub.Conn(username), LastSeen: time.Now()}

	if mode == "bot" {
		a.startBotGame(p)
		return
	}

	g, _, rejoined := a.Hub.EnqueueOrMatch(p)
	if g == nil {
		go a.Hub.StartBotIfStillWaiting(a.startBotGame)
		if ws := a.Hub.Conn(username); ws != nil {
			_ = ws.SafeWriteJSON(WSMessage{Type: "state", Data: map[string]any{"waiting": true}})
		}
		return
	}

	a.pushStateToUser(g, username)
	if !rejoined {
		a.Analytics.Emit("match.paired", map[string]any{"gameId": g.ID.String(), "p1": g.P1, "p2": g.P2})
	}
}

func (a *App) BroadcastState(g *Game) {
	for _, u := range []string{g.P1, g.P2} {
		if u == BotName {
			continue
		}
		ws := a.Hub.Conn(u)
		if ws == nil {
			log.Debug().Str("player", u).Msg("no websocket connection")
			continue
		}
		st := statePayload(g, u)
		log.Debug().Str("player", u).Int8("you", int8(st.You)).Str("opponent", st.Opponent).
			Int8("turn", int8(st.Turn)).Msg("sending game state")
		_ = ws.SafeWriteJSON(WSMessage{Type: "state", Data: st})
	}
}

func (a *App) BroadcastEnd(g *Game, reason, winner string) {
	a.Analytics.Emit("game.end", map[string]any{
		"gameId":   g.ID.String(),
		"winner":   winner,
		"reason":   reason,
		"duration": time.Since(g.Started).String(),
		"moves":    g.Board.MoveCount(),
		"p1":       g.P1,
		"p2":       g.P2,
	})
	for _, u := range []string{g.P1, g.P2} {
		if u == BotName {
			continue
		}
		if ws := a.Hub.Conn(u); ws != nil {
			_ = ws.SafeWriteJSON(WSMessage{Type: "end", Data: map[string]any{"reason": reason, "winner": winner}})
		}
	}
}

func (a *App) ForfeitIfNotRejoined(username string) {
	time.Sleep(a.Hub.reconnectTTL)

	if a.Hub.Conn(username) != nil {
		return
	}

	a.Hub.mu.Lock()
	gid, ok := a.Hub.playersInGame[username]
	if !ok {
		a.Hub.mu.Unlock()
		return
	}
	g := a.Hub.games[gid]
	if g == nil || g.Ended != nil {
		a.Hub.mu.Unlock()
		return
	}

	winner := g.P1
	if g.P1 == username {
		winner = g.P2
	}
	now := time.Now()
	g.Ended = &now
	g.Winner = &winner
	a.Hub.mu.Unlock()

	a.BroadcastState(g)
	a.BroadcastEnd(g, "forfeit", winner)
	go a.PersistGame(g)
	a.Hub.RemoveGame(g.ID)
}

func (a *App) leaderboardHandler(c *gin.Context) {
	rows, err := a.DB.QueryLeaderboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *App) recentHandler(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := a.DB.QueryRecentGames(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *App) botStatsHandler(c *gin.Context) {
	row, err := a.DB.QueryBotStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

func (a *App) routes() http.Handler {
	r := gin.Default()
	// simple CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/ws", func(c *gin.Context) { wsHandler(a, c.Writer, c.Request) })
	r.GET("/leaderboard", a.leaderboardHandler)
	r.GET("/recent", a.recentHandler)
	r.GET("/bot/stats", a.botStatsHandler)
	r.POST("/bot/move", a.botMoveHandler)
	return r
}

func main() {
	_ = os.Setenv("TZ", "UTC")
	cfg := LoadConfig()
	cfg.setupLogging()

	app := &App{
		Hub:        NewHub(time.Duration(cfg.ReconnectGraceSeconds) * time.Second),
		DB:         MustOpenDB(cfg.PostgresDSN),
		Analytics:  NewAnalytics(cfg.KafkaBrokers, cfg.KafkaTopic),
		EngineOpts: cfg.engineOptions(),
	}
	defer app.DB.Pool.Close()
	defer app.Analytics.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: app.routes()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.DB.AutoMigrate(gctx); err != nil {
			log.Err(err).Msg("migrate")
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("got quit signal...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("backend stopped")
	}
}
