package mcts

// dummyGame is a minimal two-player fixture used by unit tests that
// exercise pool/node/selection mechanics without pulling in a real game
// package (avoiding a pkg/games -> pkg/mcts -> pkg/games test cycle).
type dummyState struct{ depth int }

type dummyGame struct{}

func (dummyGame) NumPlayers() int { return 2 }

func (dummyGame) CurrentPlayer(s dummyState) Player { return Player(s.depth % 2) }

func (dummyGame) LegalMoves(s dummyState) []int {
	if s.depth >= 3 {
		return nil
	}
	return []int{0, 1}
}

func (dummyGame) Apply(s dummyState, m int) dummyState { return dummyState{depth: s.depth + 1} }

func (dummyGame) IsTerminal(s dummyState) bool { return s.depth >= 3 }

func (dummyGame) TerminalValue(s dummyState, player Player) float64 {
	if player == 0 {
		return 1
	}
	return -1
}
