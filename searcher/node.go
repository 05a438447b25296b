package searcher

import (
	"tictactoe/game"
)

const noParent = -1

// span is a half-open range [start, end) of arena indices.
type span struct {
	start int
	end   int
}

func (s span) len() int {
	return s.end - s.start
}

// node is a search tree vertex addressed by its index in the arena. score
// accumulates rewards from the perspective of the player who moved into
// the node.
type node struct {
	state    game.State
	parent   int
	action   game.Move
	children span
	expanded bool
	visits   int
	score    int
}

// tree owns every node of a single search. Nodes are only ever appended,
// so indices stay valid until the tree is discarded.
type tree struct {
	nodes []node
	path  []int
}

func newTree(root game.State) *tree {
	t := &tree{
		nodes: make([]node, 0, 1024),
		path:  make([]int, 0, game.Cells+1),
	}
	t.nodes = append(t.nodes, node{state: root, parent: noParent})
	return t
}

func (t *tree) size() int {
	return len(t.nodes)
}

func (t *tree) fullyExpanded(i int) bool {
	n := &t.nodes[i]
	return n.expanded && n.children.len() == len(n.state.LegalMoves())
}

// expand appends one child per legal move of node i as a single block.
func (t *tree) expand(i int) span {
	n := t.nodes[i]
	if n.expanded {
		panic("cannot expand node: already expanded")
	}
	if n.state.IsTerminal() {
		panic("cannot expand node: terminal state")
	}

	moves := n.state.LegalMoves()
	children := span{start: len(t.nodes), end: len(t.nodes) + len(moves)}
	for _, move := range moves {
		t.nodes = append(t.nodes, node{
			state:  n.state.Play(move),
			parent: i,
			action: move,
		})
	}
	// append may have moved the backing array
	t.nodes[i].children = children
	t.nodes[i].expanded = true
	return children
}

// backup walks the path from its end to the root. The last node receives
// the reward unchanged, and the sign flips at every step above it.
func (t *tree) backup(path []int, reward int) {
	for k := len(path) - 1; k >= 0; k-- {
		n := &t.nodes[path[k]]
		n.visits++
		n.score += reward
		reward = -reward
	}
}
