package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/you/4inarow/engine"
)

type Analytics struct{ writer *kafka.Writer }

func NewAnalytics(brokers, topic string) *Analytics {
	w := &kafka.Writer{Addr: kafka.TCP(brokers), Topic: topic, Balancer: &kafka.LeastBytes{}}
	return &Analytics{writer: w}
}

// Emit publishes one event keyed by its name.
func (a *Analytics) Emit(event string, payload map[string]any) {
	if a == nil || a.writer == nil {
		return
	}
	payload["event"] = event
	payload["ts"] = time.Now().UTC()
	b, err := json.Marshal(payload)
	if err != nil {
		log.Err(err).Str("event", event).Msg("kafka-marshal")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event), Value: b}); err != nil {
		log.Err(err).Str("event", event).Msg("kafka-emit")
	}
}

// EmitDecision publishes the engine statistics of one bot move.
func (a *Analytics) EmitDecision(g *Game, ply int, st engine.Statistics) {
	a.Emit("bot.decision", map[string]any{
		"gameId":     g.ID.String(),
		"ply":        ply,
		"col":        st.Column,
		"depth":      st.Depth,
		"book":       st.Book,
		"nodes":      st.Nodes,
		"elapsedMs":  st.Elapsed.Milliseconds(),
		"cacheHits":  st.CacheHits,
		"cacheMiss":  st.CacheMiss,
		"prunes":     st.TotalPrunes(),
		"provenWin":  engine.IsWin(st.Score),
		"provenLoss": engine.IsLoss(st.Score),
	})
}

func (a *Analytics) Close() error {
	if a == nil || a.writer == nil {
		return nil
	}
	return a.writer.Close()
}
