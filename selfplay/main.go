package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/you/4inarow/engine"
)

var (
	width    = flag.Int("width", 7, "board width")
	height   = flag.Int("height", 6, "board height")
	games    = flag.Int("games", 1, "number of games to play")
	opponent = flag.String("opponent", "self", "self or random")
	maxTime  = flag.Duration("max-time", 2*time.Second, "time limit per engine move")
	maxDepth = flag.Int("max-depth", 0, "search depth limit, 0 for none")
	verbose  = flag.Bool("v", false, "log every decision")
)

// game is one self-play game. Every engine sees every move; the random
// opponent, when there is one, plays the side without an engine.
type game struct {
	engines []*engine.Engine
	players map[engine.Side]*engine.Engine
}

func newGame(w, h int, opts engine.Options, vsRandom bool, engineSide engine.Side) (*game, error) {
	g := &game{players: map[engine.Side]*engine.Engine{}}
	sides := []engine.Side{engine.First, engine.Second}
	if vsRandom {
		sides = []engine.Side{engineSide}
	}
	for _, s := range sides {
		e, err := engine.NewEngine(w, h, s, opts)
		if err != nil {
			return nil, err
		}
		g.engines = append(g.engines, e)
		g.players[s] = e
	}
	return g, nil
}

func randomColumn(b *engine.Board) int {
	open := b.OpenColumns()
	return open[frand.Intn(len(open))]
}

// play runs the game to the end and returns the outcome.
func (g *game) play() (engine.Outcome, error) {
	ref := g.engines[0]
	turn := engine.First
	for ref.CurrentOutcome() == engine.None {
		var col int
		if e, ok := g.players[turn]; ok {
			c, err := e.DecideNextMove()
			if err != nil {
				return engine.None, err
			}
			col = c
			st := e.LastStats()
			log.Debug().Stringer("side", turn).EmbedObject(st).Msg("move")
		} else {
			col = randomColumn(ref.Board())
			log.Debug().Stringer("side", turn).Int("column", col).Msg("random move")
		}
		for _, e := range g.engines {
			if err := e.ApplyExternalMove(col, turn); err != nil {
				return engine.None, fmt.Errorf("column %d: %w", col, err)
			}
		}
		turn = turn.Opponent()
	}
	return ref.CurrentOutcome(), nil
}

func (g *game) String() string { return g.engines[0].String() }

func run() error {
	flag.Parse()
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *opponent != "self" && *opponent != "random" {
		return errors.New("opponent must be self or random")
	}
	vsRandom := *opponent == "random"

	opts := engine.DefaultOptions()
	opts.MaxTime = *maxTime
	opts.MaxDepth = *maxDepth

	tally := map[engine.Outcome]int{}
	engineWins := 0
	for i := 0; i < *games; i++ {
		engineSide := engine.First
		if i%2 == 1 {
			engineSide = engine.Second
		}
		g, err := newGame(*width, *height, opts, vsRandom, engineSide)
		if err != nil {
			return err
		}
		start := time.Now()
		outcome, err := g.play()
		if err != nil {
			return err
		}
		tally[outcome]++
		if vsRandom && outcome == engine.WinnerFor(engineSide) {
			engineWins++
		}

		fmt.Println(g)
		fmt.Printf("game %d: %s in %s\n\n", i+1, outcome, time.Since(start).Round(time.Millisecond))
	}

	fmt.Printf("%s: %d, %s: %d, %s: %d\n",
		engine.P1Wins, tally[engine.P1Wins], engine.P2Wins, tally[engine.P2Wins], engine.Draw, tally[engine.Draw])
	if vsRandom {
		fmt.Printf("engine won %d of %d\n", engineWins, *games)
	}
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("selfplay")
	}
}
