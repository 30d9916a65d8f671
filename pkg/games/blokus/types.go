// Package blokus implements a deliberately simplified 4-player Blokus
// fixture: single-cell placements anchored at each player's corner and
// extended only along diagonal adjacency to that player's own stones
// (the corner-touch rule that gives Blokus its character), without the
// full 21-piece polyomino set. It exists to exercise the engine's
// N-player (NumPlayers() > 2) backpropagation path, not to referee a
// tournament-legal game.
//
// Grounded on the teacher's examples/tic-tac-toe/ttt file-splitting
// convention (types.go / state.go / moves.go).
package blokus

const BoardSize = 14

type Cell uint8

const (
	Empty Cell = iota
	P0
	P1
	P2
	P3
)

// Move is a flattened row*BoardSize+col board index, or PassMove when the
// side to move has no legal placement.
type Move = int

// PassMove is the move LegalMoves returns, as the only move, when the side
// to move has no legal placement.
const PassMove Move = -1

func cellOf(p int) Cell { return Cell(p + 1) }

var corners = [4][2]int{
	{0, 0},
	{0, BoardSize - 1},
	{BoardSize - 1, 0},
	{BoardSize - 1, BoardSize - 1},
}
