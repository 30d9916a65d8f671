// Package gomoku implements mcts.Game for free-style Gomoku (five-in-a-
// row, any orientation, no overlines restriction) on a square board.
//
// Grounded on the teacher's examples/tic-tac-toe/ttt convention, scaled
// from a fixed 3x3 board to a configurable BoardSize.
package gomoku

const BoardSize = 15

type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Move is a flattened row*BoardSize+col board index.
type Move = int
