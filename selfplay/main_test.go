package main

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/you/4inarow/engine"
)

func quickOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.MaxTime = time.Second
	opts.PrimingDepth = 3
	opts.MaxDepth = 3
	return opts
}

func TestSelfPlayFinishes(t *testing.T) {
	is := is.New(t)
	g, err := newGame(5, 4, quickOptions(), false, engine.First)
	is.NoErr(err)
	is.Equal(len(g.engines), 2)

	outcome, err := g.play()
	is.NoErr(err)
	is.True(outcome != engine.None)
	is.Equal(g.engines[0].String(), g.engines[1].String())
	is.Equal(len(strings.Split(g.String(), "\n")), 4)
}

func TestRandomOpponent(t *testing.T) {
	is := is.New(t)
	for _, side := range []engine.Side{engine.First, engine.Second} {
		g, err := newGame(7, 6, quickOptions(), true, side)
		is.NoErr(err)
		is.Equal(len(g.engines), 1)
		is.Equal(g.engines[0].Side(), side)

		outcome, err := g.play()
		is.NoErr(err)
		is.True(outcome != engine.None)
	}
}

func TestBadBoard(t *testing.T) {
	is := is.New(t)
	_, err := newGame(9, 9, quickOptions(), false, engine.First)
	is.True(err != nil)
}
