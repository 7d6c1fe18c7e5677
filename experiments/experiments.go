package experiments

import (
	"fmt"
	"time"

	"uttt/engine"
	"uttt/experiments/metrics"
	"uttt/searcher"

	"github.com/rs/zerolog/log"
)

const NumGames = 30 // Per match up

var iterationConfigs = []metrics.AgentConfig{
	{ID: 1, Iterations: 100},
	{ID: 2, Iterations: 250},
	{ID: 3, Iterations: 500},
	{ID: 4, Iterations: 1000},
	{ID: 5, Iterations: 2500},
	{ID: 6, Iterations: 5000},
}

// RunIterationStrengthExperiment pairs each iteration budget against the
// baseline budget, alternating which side plays X.
func RunIterationStrengthExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Iterations: 500}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range iterationConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline})
	}

	runExperiment("iteration_to_strength", append(iterationConfigs, baseline), matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		configX := matchup[0]
		configO := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agentX=%+v and agentO=%+v...", mi+1, len(matchUps), configX, configO)

		for i := 0; i < NumGames; i++ {
			result, gameMetric, moveMetrics := runGame(configX, configO)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				AgentX:     configX.ID,
				AgentO:     configO.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d with result: %s", mi+1, len(matchUps), i+1, NumGames, result)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		panic(fmt.Sprintf("failed to store agent configs: %v", err))
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write game records: %v", err))
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write move records: %v", err))
	}
	log.Info().Msg("stored move records")
}

// runGame plays one game between two engines, each searching with its own
// arena and replaying the opponent's committed moves.
func runGame(configX, configO metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	configs := []metrics.AgentConfig{configX, configO}
	engines := []*engine.Engine{createEngine(configX), createEngine(configO)}

	start := time.Now()
	moveMetrics := []metrics.MoveMetric{}
	step := 0
	for !engines[0].GameOver() {
		mover := step % 2
		other := 1 - mover

		evaluation := engines[mover].Analyze(configs[mover].Iterations)
		move := engines[mover].Resolve(evaluation.BestMove).Board.LastMove
		engines[mover].Step(evaluation.BestMove)

		err := engines[other].Play(move.Sub(), move.Cell())
		if err != nil {
			panic(fmt.Sprintf("engines disagree on move %s: %v", move, err))
		}

		step++
		metric := engines[mover].SearchMetrics()
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       [2]string{"X", "O"}[mover],
			SearchMetric: metric,
		})
	}

	result := engines[0].GameState().String()
	end := time.Now()
	gameMetric := metrics.GameMetric{
		StartingAgent: configX.ID,
		Result:        result,
		StartTime:     start,
		EndTime:       end,
		Duration:      end.Sub(start),
		TotalMoves:    step,
	}
	return result, gameMetric, moveMetrics
}

func createEngine(config metrics.AgentConfig) *engine.Engine {
	options := []searcher.Option{searcher.WithMetrics()}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	return engine.New(options...)
}
