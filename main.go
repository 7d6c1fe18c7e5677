package main

import (
	"flag"
	"fmt"
	"os"

	"uttt/engine"
	"uttt/experiments"
	"uttt/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	iterations int
	experiment bool
	debug      bool
}

func main() {
	cfg := config{}
	flag.IntVar(&cfg.iterations, "iterations", 5000, "Search iterations per move")
	flag.BoolVar(&cfg.experiment, "experiment", false, "Run the iteration strength experiment instead of a self-play game")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfg.experiment {
		experiments.RunIterationStrengthExperiment()
		return
	}

	runSelfPlay(cfg)
}

// runSelfPlay has the engine play both sides of one game, printing each
// position as it goes.
func runSelfPlay(cfg config) {
	e := engine.New(searcher.WithMetrics())

	moveCount := 0
	for !e.GameOver() {
		moveCount++
		fmt.Println()
		fmt.Println(e.Board())

		evaluation := e.Analyze(cfg.iterations)
		node := e.Resolve(evaluation.BestMove)
		fmt.Printf("Confidence %.1f%%, best move: %s\n", evaluation.Confidence, node.Board.LastMove)
		log.Info().
			Stringer("player", node.Board.NextPlayer.Other()).
			Stringer("move", node.Board.LastMove).
			Int("nodes", e.NodeCount()).
			Dur("search", e.SearchMetrics().Duration).
			Msg("move committed")

		e.Step(evaluation.BestMove)
	}

	fmt.Println()
	fmt.Println(e.Board())
	fmt.Printf("Result: %s; move count: %d\n", e.GameState(), moveCount)
}
