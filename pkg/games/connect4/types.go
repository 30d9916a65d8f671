// Package connect4 implements mcts.Game for standard 7x6 Connect Four,
// played to four-in-a-row (any orientation) or a full-board draw.
//
// Grounded on the teacher's examples/tic-tac-toe/ttt file-splitting
// convention (types.go / state.go / moves.go), adapted from tic-tac-toe's
// 3x3 byte board to a column-indexed, gravity-constrained board.
package connect4

const (
	Width  = 7
	Height = 6
)

// Cell is one board square's occupant.
type Cell uint8

const (
	Empty Cell = iota
	Red
	Yellow
)

// Move is the zero-indexed column a player drops a disc into.
type Move = int
