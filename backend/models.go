package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/4inarow/engine"
)

type Player struct {
	Username string
	Conn     *WSConn // wrapper to send safely
	LastSeen time.Time
}

type GameID = uuid.UUID

const (
	Cols = 7
	Rows = 6

	BotName = "BOT"
)

type Cell = engine.Cell

const (
	Empty = engine.Empty
	P1    = engine.P1
	P2    = engine.P2
)

type Game struct {
	ID      GameID
	P1      string
	P2      string // can be BotName
	Board   *engine.Board
	Turn    engine.Side
	Started time.Time
	Ended   *time.Time
	Winner  *string
	IsDraw  bool

	// bot is set for games against the engine; botMu serializes its use.
	bot   *engine.Engine
	botMu sync.Mutex
}

// WebSocket message payloads

type WSMessage struct {
	Type string      `json:"type"` // join|state|move|error|end|ping|leaderboard
	Data interface{} `json:"data"`
}

type Move struct {
	Col int `json:"col"`
}

type StatePayload struct {
	GameID   string           `json:"gameId"`
	Board    [Rows][Cols]Cell `json:"board"`
	Turn     Cell             `json:"turn"`
	You      Cell             `json:"you"`
	Opponent string           `json:"opponent"`
}

// BotMoveRequest asks the engine for a move in an arbitrary position.
type BotMoveRequest struct {
	Width     int   `json:"width"`
	Height    int   `json:"height"`
	Moves     []int `json:"moves"`
	MaxTimeMs int   `json:"maxTimeMs"`
}

type BotMoveResponse struct {
	Column    int    `json:"column"`
	Depth     int    `json:"depth"`
	Nodes     uint64 `json:"nodes"`
	ElapsedMs int64  `json:"elapsedMs"`
	Book      bool   `json:"book"`
	Board     string `json:"board"`
}
