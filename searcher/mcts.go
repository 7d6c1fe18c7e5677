package searcher

import (
	"math"
	"sync"

	"uttt/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS runs Monte Carlo tree search over an Arena.
type MCTS struct {
	exploration float64
	metrics     MetricsCollector
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		exploration: DefaultExploration,
		metrics:     NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Metrics returns the summary of the last Analyze call. Meaningful only
// when the searcher was built WithMetrics.
func (m *MCTS) Metrics() SearchMetric {
	return m.metrics.Complete()
}

type simulationResult struct {
	id     NodeID
	result game.GameState
}

// Analyze runs the given number of search iterations from id and returns
// the best direct child by visit count, with the confidence (its win rate
// as a percentage). Iterations are sequential; within one iteration every
// newly expanded sibling is rolled out in parallel before results are
// backpropagated.
//
// If id has no children after the budget is spent (a terminal node, or
// zero iterations on an unexpanded node), Analyze returns (0, id)
// unchanged.
func (m *MCTS) Analyze(a *Arena, id NodeID, iterations int) (float64, NodeID) {
	m.metrics.Start()
	rootPlayer := a.resolve(id).board.NextPlayer

	var results []simulationResult
	for i := 0; i < iterations; i++ {
		results = results[:0]

		selected, expandable := m.selectNode(a, id)
		if expandable {
			children := m.expand(a, selected)
			results = m.fanOut(a, children, results)
		} else {
			// Terminal node: its own outcome stands in for a rollout.
			state := a.resolve(selected).board.CheckGameState()
			results = append(results, simulationResult{selected, state})
		}

		backpropagate(a, results, rootPlayer)
		m.metrics.AddIteration()
	}
	m.metrics.SetTreeSize(a.Len())

	best := m.bestChild(a, id)
	if best == id {
		log.Warn().Int("node", int(id)).Msg("analyze: node has no children to rank")
		return 0, id
	}

	child := a.resolve(best)
	confidence := child.wins / child.visits * 100
	log.Debug().
		Int("iterations", iterations).
		Int("nodes", a.Len()).
		Float64("confidence", confidence).
		Stringer("move", child.board.LastMove).
		Msg("analyze complete")
	return confidence, best
}

// selectNode descends from id along max-UCT children until it reaches an
// unexpanded node (expandable = true) or a terminal one.
func (m *MCTS) selectNode(a *Arena, id NodeID) (NodeID, bool) {
	n := a.resolve(id)
	for !n.board.GameOver() {
		if n.children == nil {
			return id, true
		}
		id = m.pickChild(a, n)
		n = a.resolve(id)
	}
	return id, false
}

// pickChild returns the child with the strictly highest UCT score. An
// unvisited child always wins over any scored one: its UCT terms are
// undefined, and it must get its first visit before ranking means
// anything.
func (m *MCTS) pickChild(a *Arena, parent *node) NodeID {
	if parent.visits == 0 {
		panic("selecting on a node with no visits")
	}
	logN := math.Log(parent.visits)

	best := parent.children[0]
	maxScore := math.Inf(-1)
	for _, id := range parent.children {
		child := a.resolve(id)
		if child.visits == 0 {
			return id
		}
		score := child.wins/child.visits + m.exploration*math.Sqrt(logN/child.visits)
		if score > maxScore {
			maxScore = score
			best = id
		}
	}
	return best
}

// expand creates one child per legal move and attaches the full list in
// one step. Must only be called on a non-terminal unexpanded node.
func (m *MCTS) expand(a *Arena, id NodeID) []NodeID {
	board := a.resolve(id).board
	moves := board.Moves()

	count := moves.Count()
	if count == 0 {
		panic("expanding a node with no legal moves")
	}
	children := make([]NodeID, 0, count)
	for k := 0; k < count; k++ {
		move := game.MoveFromIndex(moves.Kth(k))
		children = append(children, a.add(id, board.UncheckedPlay(move)))
	}
	// a.add may have grown the pool; re-resolve before attaching.
	a.resolve(id).children = children
	m.metrics.AddNodesExpanded(count)
	return children
}

// fanOut rolls out every new sibling in parallel and joins before
// returning. Each goroutine reads its own immutable board snapshot and
// writes only its own result slot.
func (m *MCTS) fanOut(a *Arena, children []NodeID, results []simulationResult) []simulationResult {
	base := len(results)
	results = append(results, make([]simulationResult, len(children))...)

	var wg sync.WaitGroup
	for i, id := range children {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[base+i] = simulationResult{id, rollout(a.resolve(id).board)}
		}()
	}
	wg.Wait()

	m.metrics.AddRollouts(len(children))
	return results
}

// rollout plays uniformly random legal moves to a terminal state. Always
// terminates: every ply fills a cell and at most 81 are empty.
func rollout(board game.Board) game.GameState {
	for !board.GameOver() {
		moves := board.Moves()
		k := rand.Intn(moves.Count())
		board = board.UncheckedPlay(game.MoveFromIndex(moves.Kth(k)))
	}
	return board.CheckGameState()
}

// backpropagate walks each result's ancestor chain up to the arena root,
// crediting a visit everywhere, a win when the analysis root's player won
// the rollout, and drawReward on a draw.
func backpropagate(a *Arena, results []simulationResult, rootPlayer game.Player) {
	for _, r := range results {
		var reward float64
		switch r.result {
		case game.InProgress:
			panic("rollout ended in progress")
		case game.Draw:
			reward = drawReward
		default:
			if winner, _ := r.result.Winner(); winner == rootPlayer {
				reward = WinReward
			}
		}

		for id := r.id; id != noParent; id = a.resolve(id).parent {
			n := a.resolve(id)
			n.visits++
			n.wins += reward
		}
	}
}

// bestChild returns the child of id with the strictly highest visit count,
// or id itself when there are no children. Visits, not win rate: under UCT
// the visit count is the stable exploitation signal.
func (m *MCTS) bestChild(a *Arena, id NodeID) NodeID {
	children := a.resolve(id).children
	if len(children) == 0 {
		return id
	}

	best := children[0]
	maxVisits := a.resolve(best).visits
	for _, child := range children[1:] {
		if v := a.resolve(child).visits; v > maxVisits {
			maxVisits = v
			best = child
		}
	}
	return best
}
