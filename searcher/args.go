package searcher

import "math"

// Hyperparameters for MCTS

// DefaultExploration is the UCT exploration constant c.
const DefaultExploration = math.Sqrt2

// Reward credited at every ancestor for a drawn rollout. Ranks draws above
// losses without visibly moving win-rate percentages.
const drawReward = 1e-8

// WinReward is the reward credited for a decisive rollout win.
const WinReward = 1.0
