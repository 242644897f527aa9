package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

const botName = "BOT"

type GameMetrics struct {
	TotalGames      int
	TotalMoves      int
	GamesByHour     map[int]int
	PlayerStats     map[string]PlayerStats
	AverageDuration time.Duration
	BotWins         int
	PlayerWins      int
	Draws           int
	BotDecisions    int
	BookMoves       int
	BotDepthSum     int

	starts map[string]time.Time
	ended  int
}

type PlayerStats struct {
	GamesPlayed int
	Wins        int
	Moves       int
}

func newGameMetrics() *GameMetrics {
	return &GameMetrics{
		GamesByHour: make(map[int]int),
		PlayerStats: make(map[string]PlayerStats),
		starts:      make(map[string]time.Time),
	}
}

func (m *GameMetrics) player(name string, f func(*PlayerStats)) {
	if name == botName || name == "" {
		return
	}
	st := m.PlayerStats[name]
	f(&st)
	m.PlayerStats[name] = st
}

// apply folds one event received at ts into the metrics.
func (m *GameMetrics) apply(ev map[string]any, ts time.Time) {
	str := func(k string) string {
		s, _ := ev[k].(string)
		return s
	}

	switch str("event") {
	case "match.start", "match.paired":
		m.starts[str("gameId")] = ts
		m.TotalGames++
		m.GamesByHour[ts.Hour()]++
		for _, p := range []string{str("p1"), str("p2")} {
			m.player(p, func(st *PlayerStats) { st.GamesPlayed++ })
		}

	case "move":
		m.TotalMoves++
		m.player(str("by"), func(st *PlayerStats) { st.Moves++ })

	case "bot.decision":
		m.BotDecisions++
		if book, _ := ev["book"].(bool); book {
			m.BookMoves++
		}
		if d, ok := ev["depth"].(float64); ok {
			m.BotDepthSum += int(d)
		}

	case "game.end":
		gameID := str("gameId")
		if start, ok := m.starts[gameID]; ok {
			m.ended++
			m.AverageDuration += (ts.Sub(start) - m.AverageDuration) / time.Duration(m.ended)
			delete(m.starts, gameID)
		}

		switch winner := str("winner"); winner {
		case botName:
			m.BotWins++
		case "":
			m.Draws++
		default:
			m.PlayerWins++
			m.player(winner, func(st *PlayerStats) { st.Wins++ })
		}
	}
}

// topPlayers returns up to n players ordered by wins, then games played.
func (m *GameMetrics) topPlayers(n int) []lo.Entry[string, PlayerStats] {
	entries := lo.Entries(m.PlayerStats)
	slices.SortFunc(entries, func(a, b lo.Entry[string, PlayerStats]) int {
		if a.Value.Wins != b.Value.Wins {
			return b.Value.Wins - a.Value.Wins
		}
		if a.Value.GamesPlayed != b.Value.GamesPlayed {
			return b.Value.GamesPlayed - a.Value.GamesPlayed
		}
		return strings.Compare(a.Key, b.Key)
	})
	return entries[:min(n, len(entries))]
}

func (m *GameMetrics) String() string {
	var sb strings.Builder
	sb.WriteString("=== GAME ANALYTICS ===\n")
	fmt.Fprintf(&sb, "Total Games: %d\n", m.TotalGames)
	fmt.Fprintf(&sb, "Total Moves: %d\n", m.TotalMoves)
	fmt.Fprintf(&sb, "Average Game Duration: %v\n", m.AverageDuration)
	fmt.Fprintf(&sb, "Bot Wins: %d, Player Wins: %d, Draws: %d\n", m.BotWins, m.PlayerWins, m.Draws)
	if m.BotDecisions > 0 {
		fmt.Fprintf(&sb, "Bot Decisions: %d (book %d, avg depth %.1f)\n",
			m.BotDecisions, m.BookMoves, float64(m.BotDepthSum)/float64(m.BotDecisions))
	}

	sb.WriteString("Games by Hour:\n")
	hours := lo.Keys(m.GamesByHour)
	slices.Sort(hours)
	for _, h := range hours {
		fmt.Fprintf(&sb, "  %02d:00 - %d games\n", h, m.GamesByHour[h])
	}

	sb.WriteString("Top Players:\n")
	for _, e := range m.topPlayers(5) {
		fmt.Fprintf(&sb, "  %s: %d games, %d wins, %d moves\n", e.Key, e.Value.GamesPlayed, e.Value.Wins, e.Value.Moves)
	}
	sb.WriteString("=====================")
	return sb.String()
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	v := viper.New()
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "game.analytics")
	v.SetDefault("KAFKA_GROUP", "analytics")
	v.SetDefault("PRINT_EVERY", 30*time.Second)
	v.AutomaticEnv()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		Topic:   v.GetString("KAFKA_TOPIC"),
		GroupID: v.GetString("KAFKA_GROUP"),
	})
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := newGameMetrics()
	lastPrint := time.Now()
	every := v.GetDuration("PRINT_EVERY")

	log.Info().Str("topic", v.GetString("KAFKA_TOPIC")).Msg("analytics consumer started, listening for game events")

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("shutting down")
				return
			}
			log.Err(err).Msg("read message")
			continue
		}

		var ev map[string]any
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Err(err).Str("key", string(m.Key)).Msg("unmarshal message")
			continue
		}
		metrics.apply(ev, time.Now())
		log.Debug().Str("event", string(m.Key)).Msg("event applied")

		if time.Since(lastPrint) >= every {
			lastPrint = time.Now()
			fmt.Println(metrics)
		}
	}
}
