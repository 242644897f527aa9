package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type GameEnd struct {
	Reason   string `json:"reason"`
	Winner   string `json:"winner"`
	Duration string `json:"duration"`
	Moves    int    `json:"moves"`
	P1       string `json:"p1"`
	P2       string `json:"p2"`
}

// Decision is the telemetry of one engine move.
type Decision struct {
	GameID     string `json:"gameId"`
	Ply        int    `json:"ply"`
	Col        int    `json:"col"`
	Depth      int    `json:"depth"`
	Book       bool   `json:"book"`
	Nodes      uint64 `json:"nodes"`
	ElapsedMs  int64  `json:"elapsedMs"`
	CacheHits  uint64 `json:"cacheHits"`
	CacheMiss  uint64 `json:"cacheMiss"`
	Prunes     uint64 `json:"prunes"`
	ProvenWin  bool   `json:"provenWin"`
	ProvenLoss bool   `json:"provenLoss"`
}

type Aggregates struct {
	mu         sync.Mutex
	totalGames int
	totalDur   time.Duration
	totalMoves int
	wins       map[string]int
	reasons    map[string]int
	perHour    map[time.Time]int

	decisions  int
	book       int
	depthSum   int
	maxDepth   int
	nodes      uint64
	elapsed    time.Duration
	cacheHits  uint64
	cacheMiss  uint64
	provenWins int
	provenLoss int
}

func newAggregates() *Aggregates {
	return &Aggregates{
		wins:    map[string]int{},
		reasons: map[string]int{},
		perHour: map[time.Time]int{},
	}
}

func (a *Aggregates) addEnd(evt GameEnd, ts time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalGames++
	a.totalMoves += evt.Moves
	if d, err := time.ParseDuration(evt.Duration); err == nil {
		a.totalDur += d
	}
	if evt.Winner != "" {
		a.wins[evt.Winner]++
	}
	a.reasons[evt.Reason]++
	a.perHour[ts.Truncate(time.Hour)]++
}

func (a *Aggregates) addDecision(d Decision) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.decisions++
	if d.Book {
		a.book++
		return
	}
	a.depthSum += d.Depth
	a.maxDepth = max(a.maxDepth, d.Depth)
	a.nodes += d.Nodes
	a.elapsed += time.Duration(d.ElapsedMs) * time.Millisecond
	a.cacheHits += d.CacheHits
	a.cacheMiss += d.CacheMiss
	if d.ProvenWin {
		a.provenWins++
	}
	if d.ProvenLoss {
		a.provenLoss++
	}
}

// searched is the number of decisions that ran a search.
func (a *Aggregates) searched() int { return a.decisions - a.book }

func (a *Aggregates) nodesPerSecond() float64 {
	if a.elapsed <= 0 {
		return 0
	}
	return float64(a.nodes) / a.elapsed.Seconds()
}

func (a *Aggregates) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sb strings.Builder
	avg := time.Duration(0)
	if a.totalGames > 0 {
		avg = a.totalDur / time.Duration(a.totalGames)
	}
	sb.WriteString("---- Analytics Snapshot ----\n")
	fmt.Fprintf(&sb, "Games finished: %d\n", a.totalGames)
	fmt.Fprintf(&sb, "Avg duration : %v\n", avg)
	fmt.Fprintf(&sb, "Moves played : %d\n", a.totalMoves)
	fmt.Fprintln(&sb, "Wins by user:")
	for _, u := range lo.Keys(a.wins) {
		fmt.Fprintf(&sb, "  %s: %d\n", u, a.wins[u])
	}
	fmt.Fprintln(&sb, "Endings:")
	for _, r := range lo.Keys(a.reasons) {
		fmt.Fprintf(&sb, "  %s: %d\n", r, a.reasons[r])
	}
	fmt.Fprintln(&sb, "Games per hour:")
	hours := lo.Keys(a.perHour)
	slices.SortFunc(hours, func(x, y time.Time) int { return x.Compare(y) })
	for _, h := range hours {
		fmt.Fprintf(&sb, "  %s : %d\n", h.Format("2006-01-02 15:00"), a.perHour[h])
	}

	fmt.Fprintf(&sb, "Engine decisions: %d (book %d)\n", a.decisions, a.book)
	if n := a.searched(); n > 0 {
		fmt.Fprintf(&sb, "  avg depth    : %.1f (max %d)\n", float64(a.depthSum)/float64(n), a.maxDepth)
		fmt.Fprintf(&sb, "  nodes/sec    : %.0f\n", a.nodesPerSecond())
		fmt.Fprintf(&sb, "  cache hits   : %d / %d\n", a.cacheHits, a.cacheHits+a.cacheMiss)
		fmt.Fprintf(&sb, "  proven       : %d won, %d lost\n", a.provenWins, a.provenLoss)
	}
	sb.WriteString("----------------------------")
	return sb.String()
}

// handle routes one message by its key.
func (a *Aggregates) handle(m kafka.Message, ts time.Time) error {
	switch string(m.Key) {
	case "game.end":
		var ge GameEnd
		if err := json.Unmarshal(m.Value, &ge); err != nil {
			return fmt.Errorf("game.end: %w", err)
		}
		a.addEnd(ge, ts)
	case "bot.decision":
		var d Decision
		if err := json.Unmarshal(m.Value, &d); err != nil {
			return fmt.Errorf("bot.decision: %w", err)
		}
		a.addDecision(d)
	}
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	v := viper.New()
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "game.analytics")
	v.SetDefault("KAFKA_GROUP", "")
	v.SetDefault("PRINT_EVERY", 10*time.Second)
	v.AutomaticEnv()

	brokers := v.GetString("KAFKA_BROKERS")
	topic := v.GetString("KAFKA_TOPIC")
	groupID := v.GetString("KAFKA_GROUP")
	if topic == "" {
		log.Fatal().Msg("KAFKA_TOPIC is required")
	}

	log.Info().Str("brokers", brokers).Str("topic", topic).Str("group", groupID).Msg("engine telemetry consumer started")

	cfg := kafka.ReaderConfig{
		Brokers:  strings.Split(brokers, ","),
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if groupID == "" {
		cfg.StartOffset = kafka.FirstOffset
	}
	r := kafka.NewReader(cfg)
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg := newAggregates()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(v.GetDuration("PRINT_EVERY"))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				fmt.Println(agg)
			}
		}
	})

	g.Go(func() error {
		for {
			m, err := r.ReadMessage(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				log.Err(err).Msg("read error")
				time.Sleep(time.Second)
				continue
			}
			log.Debug().Str("key", string(m.Key)).Bytes("val", m.Value).Msg("event")
			if err := agg.handle(m, time.Now()); err != nil {
				log.Warn().Err(err).Msg("skipping malformed event")
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("shutting down")
}
