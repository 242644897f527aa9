package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/you/4inarow/engine"
)

// statePayload builds the state message for username's seat in g.
func statePayload(g *Game, username string) StatePayload {
	you := g.sideOf(username)
	opp := g.P2
	if you == engine.Second {
		opp = g.P1
	}
	return StatePayload{
		GameID:   g.ID.String(),
		Board:    g.grid(),
		Turn:     g.Turn.Cell(),
		You:      you.Cell(),
		Opponent: opp,
	}
}

func (a *App) pushStateToUser(g *Game, username string) {
	ws := a.Hub.Conn(username)
	if ws == nil {
		return
	}
	_ = ws.SafeWriteJSON(WSMessage{Type: "state", Data: statePayload(g, username)})
}

type WSConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *WSConn) SafeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteJSON(v)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	mu            sync.RWMutex
	waiting       *Player
	games         map[GameID]*Game
	playersInGame map[string]GameID
	conns         map[string]*WSConn
	reconnectTTL  time.Duration
	botWait       time.Duration
}

func NewHub(ttl time.Duration) *Hub {
	return &Hub{
		games:         make(map[GameID]*Game),
		playersInGame: make(map[string]GameID),
		conns:         make(map[string]*WSConn),
		reconnectTTL:  ttl,
		botWait:       10 * time.Second,
	}
}

func (h *Hub) EnqueueOrMatch(p *Player) (*Game, engine.Side, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p.LastSeen = time.Now()

	// Rejoin existing game
	if gid, ok := h.playersInGame[p.Username]; ok {
		g := h.games[gid]
		return g, g.sideOf(p.Username), true
	}

	// Pair with waiting player
	if h.waiting != nil && h.waiting.Username != p.Username {
		g := newGame(h.waiting.Username, p.Username)
		h.addGameLocked(g)
		h.waiting = nil
		return g, engine.Second, false
	}

	h.waiting = p
	return nil, 0, false
}

// AddGame registers g and both of its players.
func (h *Hub) AddGame(g *Game) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addGameLocked(g)
}

func (h *Hub) addGameLocked(g *Game) {
	h.games[g.ID] = g
	h.playersInGame[g.P1] = g.ID
	h.playersInGame[g.P2] = g.ID
}

// StartBotIfStillWaiting waits botWait and, if the SAME player is still
// waiting, hands them to create.
func (h *Hub) StartBotIfStillWaiting(create func(player *Player)) {
	h.mu.RLock()
	w := h.waiting
	h.mu.RUnlock()
	if w == nil {
		log.Debug().Msg("no waiting player, bot timer not started")
		return
	}

	log.Info().Str("player", w.Username).Dur("wait", h.botWait).Msg("bot-timer-started")
	time.Sleep(h.botWait)

	h.mu.Lock()
	if h.waiting == nil || h.waiting.Username != w.Username {
		h.mu.Unlock()
		log.Info().Str("player", w.Username).Msg("player no longer waiting")
		return
	}

	p := *h.waiting
	h.waiting = nil
	h.mu.Unlock()

	log.Info().Str("player", p.Username).Msg("starting bot game")
	create(&p)
}

func (h *Hub) RemoveGame(gid GameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	g := h.games[gid]
	if g == nil {
		return
	}
	delete(h.playersInGame, g.P1)
	delete(h.playersInGame, g.P2)
	delete(h.games, gid)
}

func (h *Hub) GetGame(gid GameID) (*Game, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g := h.games[gid]
	return g, g != nil
}

func (h *Hub) SetConn(username string, ws *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[username] = ws
}

func (h *Hub) DelConn(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, username)
}

func (h *Hub) Conn(username string) *WSConn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[username]
}

func wsHandler(app *App, w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" || username == BotName {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ws := &WSConn{Conn: conn}

	app.Hub.SetConn(username, ws)

	player := &Player{Username: username, Conn: ws, LastSeen: time.Now()}

	// register or rejoin
	game, _, rejoined := app.Hub.EnqueueOrMatch(player)
	if game == nil {
		// waiting: start bot timer but DO NOT return; keep socket open
		log.Info().Str("player", username).Msg("waiting for opponent")
		go app.Hub.StartBotIfStillWaiting(app.startBotGame)
		_ = ws.SafeWriteJSON(WSMessage{Type: "state", Data: map[string]any{"waiting": true}})
	} else {
		_ = ws.SafeWriteJSON(WSMessage{Type: "state", Data: statePayload(game, username)})
		if !rejoined {
			app.Analytics.Emit("match.paired", map[string]any{"gameId": game.ID.String(), "p1": game.P1, "p2": game.P2})
		}
	}

	go func() {
		defer func() {
			conn.Close()
			app.Hub.DelConn(username)
			go app.ForfeitIfNotRejoined(username)
		}()
		for {
			var incoming WSMessage
			if err := conn.ReadJSON(&incoming); err != nil {
				log.Debug().Err(err).Str("player", username).Msg("ws-read")
				return
			}

			switch incoming.Type {
			case "move":
				col := -1
				if m, ok := incoming.Data.(map[string]any); ok {
					if f, ok2 := m["col"].(float64); ok2 {
						col = int(f)
					}
				}
				if col >= 0 {
					app.HandleMove(username, col)
				}

			case "regame":
				mode := "matchmaking"
				if m, ok := incoming.Data.(map[string]any); ok {
					if s, ok2 := m["mode"].(string); ok2 {
						mode = s
					}
				}
				log.Info().Str("player", username).Str("mode", mode).Msg("regame")
				app.HandleRegame(username, mode)

			default:
			}
		}
	}()
}
