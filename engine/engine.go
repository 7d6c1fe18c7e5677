package engine

import (
	"errors"
	"fmt"

	"uttt/game"
	"uttt/searcher"

	"github.com/rs/zerolog/log"
)

// ErrIllegalMove reports a submitted move with no matching legal
// transition from the current position.
var ErrIllegalMove = errors.New("illegal move")

// Evaluation is the outcome of one Analyze call.
type Evaluation struct {
	// Win rate of the best child, as a percentage.
	Confidence float64
	// Handle of the best child in the current arena. Step to it to commit
	// the move.
	BestMove searcher.NodeID
}

// Engine is the façade over the board rules and the searcher: it tracks
// the current position as a node of one search arena, maps human moves to
// tree nodes, and re-roots after every committed move.
type Engine struct {
	arena   *searcher.Arena
	current searcher.NodeID
	search  *searcher.MCTS
}

// New returns an engine at the initial position.
func New(options ...searcher.Option) *Engine {
	return NewFromBoard(game.NewBoard(), options...)
}

// NewFromBoard returns an engine rooted at an arbitrary position.
func NewFromBoard(board game.Board, options ...searcher.Option) *Engine {
	return &Engine{
		arena:   searcher.NewArena(board),
		current: 0,
		search:  searcher.NewMCTS(options...),
	}
}

// Analyze searches the current position for the given number of
// iterations. The old arena is discarded and a fresh one is rooted at the
// current board, so memory stays bounded by a single search session.
func (e *Engine) Analyze(iterations int) Evaluation {
	board := e.arena.Resolve(e.current).Board
	e.arena = searcher.NewArena(board)
	e.current = e.arena.Root()

	confidence, best := e.search.Analyze(e.arena, e.current, iterations)
	return Evaluation{Confidence: confidence, BestMove: best}
}

// Step commits a move by making one of the current node's children the
// current position.
func (e *Engine) Step(id searcher.NodeID) {
	e.current = id
}

// Play validates a human-chosen (sub-board, cell) pair against the current
// node's children and commits it, expanding one ply on demand if the node
// has not been expanded yet. Returns ErrIllegalMove when no child matches.
func (e *Engine) Play(sub, cell uint8) error {
	move := game.MoveFromGL(sub, cell)

	node := e.arena.Resolve(e.current)
	if node.Children == nil {
		if node.Board.GameOver() {
			return fmt.Errorf("%w %s: game is over", ErrIllegalMove, move)
		}
		e.search.Analyze(e.arena, e.current, 1)
		node = e.arena.Resolve(e.current)
	}

	for _, child := range node.Children {
		if e.arena.Resolve(child).Board.LastMove == move {
			log.Debug().Stringer("move", move).Msg("move accepted")
			e.Step(child)
			return nil
		}
	}
	return fmt.Errorf("%w %s", ErrIllegalMove, move)
}

// Board returns the current position.
func (e *Engine) Board() game.Board {
	return e.arena.Resolve(e.current).Board
}

// Resolve returns a read-only view of a node in the current arena.
func (e *Engine) Resolve(id searcher.NodeID) searcher.Node {
	return e.arena.Resolve(id)
}

// GameOver reports whether the current position is decided.
func (e *Engine) GameOver() bool {
	return e.Board().GameOver()
}

// GameState returns the outcome at the current position.
func (e *Engine) GameState() game.GameState {
	return e.Board().CheckGameState()
}

// SearchMetrics returns the summary of the last Analyze call. Meaningful
// only when the engine was built with searcher.WithMetrics.
func (e *Engine) SearchMetrics() searcher.SearchMetric {
	return e.search.Metrics()
}

// NodeCount returns the size of the current arena.
func (e *Engine) NodeCount() int {
	return e.arena.Len()
}
