// Package othello implements mcts.Game for standard 8x8 Othello/Reversi,
// including pass handling: a player with no legal move forfeits their
// turn rather than ending the game, and the game ends only when neither
// player can move (or the board is full).
//
// Grounded on the teacher's examples/tic-tac-toe/ttt file-splitting
// convention (types.go / state.go / moves.go).
package othello

const BoardSize = 8

type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Move is a flattened row*BoardSize+col board index, or PassMove when the
// side to move has no legal flips available.
type Move = int

// PassMove is the sentinel move LegalMoves returns, as the only move, when
// the side to move has no capture but the game is not yet over.
const PassMove Move = -1
