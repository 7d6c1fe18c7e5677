package searcher

import "uttt/game"

// NodeID is a stable handle into one Arena. Handles are never valid across
// arenas.
type NodeID int

// noParent marks the root's parent slot.
const noParent NodeID = -1

type node struct {
	board  game.Board
	wins   float64
	visits float64
	parent NodeID
	// nil means unexpanded; terminal nodes stay unexpanded forever.
	children []NodeID
}

// Arena owns every node of one search tree, addressed by index. Index 0 is
// always the root. Nodes are appended at expansion time and live until the
// whole arena is dropped; re-rooting after a committed move builds a fresh
// arena instead of pruning this one.
type Arena struct {
	nodes []node
}

// NewArena returns an arena rooted at the given position.
func NewArena(board game.Board) *Arena {
	return &Arena{nodes: []node{{board: board, parent: noParent}}}
}

// Root returns the handle of the search root.
func (a *Arena) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node is a read-only view of one search-tree node.
type Node struct {
	Board    game.Board
	Wins     float64
	Visits   float64
	Parent   NodeID // -1 for the root
	Children []NodeID
}

// Resolve returns a read-only view of the node behind id.
func (a *Arena) Resolve(id NodeID) Node {
	n := &a.nodes[id]
	var children []NodeID
	if n.children != nil {
		children = make([]NodeID, len(n.children))
		copy(children, n.children)
	}
	return Node{
		Board:    n.board,
		Wins:     n.wins,
		Visits:   n.visits,
		Parent:   n.parent,
		Children: children,
	}
}

func (a *Arena) resolve(id NodeID) *node {
	return &a.nodes[id]
}

// add appends a child of parent at the given position and returns its
// handle.
func (a *Arena) add(parent NodeID, board game.Board) NodeID {
	a.nodes = append(a.nodes, node{board: board, parent: parent})
	return NodeID(len(a.nodes) - 1)
}
