// Package arena adapts the teacher's bench subpackage into a harness for
// §8 Scenario 6: running many games between two engine configurations
// that differ only in Config.SharedTree, so the search.go-era
// VersusArena's win/loss/draw bookkeeping can quantify whatever effect
// tree reuse across moves has on playing strength.
package arena

import "sync/atomic"

// MatchResult is a single game's outcome from the agent-assignment
// perspective (not the board's first/second-player perspective).
type MatchResult int

const (
	Player1Win MatchResult = 1
	Player2Win MatchResult = -1
	Draw       MatchResult = 0
)

// Stats accumulates match outcomes across workers; every field is updated
// with atomic.AddUint32 so many worker goroutines may share one Stats.
type Stats struct {
	p1Wins           uint32
	p2Wins           uint32
	draws            uint32
	firstToMoveWins  uint32
	secondToMoveWins uint32
}

func (s *Stats) Total() int { return s.P1Wins() + s.P2Wins() + s.Draws() }

func (s *Stats) P1Wins() int           { return int(atomic.LoadUint32(&s.p1Wins)) }
func (s *Stats) P2Wins() int           { return int(atomic.LoadUint32(&s.p2Wins)) }
func (s *Stats) Draws() int            { return int(atomic.LoadUint32(&s.draws)) }
func (s *Stats) FirstToMoveWins() int  { return int(atomic.LoadUint32(&s.firstToMoveWins)) }
func (s *Stats) SecondToMoveWins() int { return int(atomic.LoadUint32(&s.secondToMoveWins)) }

func (s *Stats) record(result MatchResult, firstPlayerWon bool) {
	switch result {
	case Player1Win:
		atomic.AddUint32(&s.p1Wins, 1)
	case Player2Win:
		atomic.AddUint32(&s.p2Wins, 1)
	case Draw:
		atomic.AddUint32(&s.draws, 1)
	}
	if result != Draw {
		if firstPlayerWon {
			atomic.AddUint32(&s.firstToMoveWins, 1)
		} else {
			atomic.AddUint32(&s.secondToMoveWins, 1)
		}
	}
}

// WorkerInfo is handed to a Listener after every move and every finished
// game, carrying one worker's running tally.
type WorkerInfo struct {
	WorkerID         int
	NGames           int
	FinishedGames    int
	GameMoveNum      int
	P1Wins           int
	P2Wins           int
	Draws            int
	FirstToMoveWins  int
	SecondToMoveWins int
	P1Name           string
	P2Name           string
}

// SummaryInfo is the arena-wide result, reported once all workers finish.
type SummaryInfo struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// outcome is the board-perspective result of one game: who actually won,
// independent of which agent was assigned which side.
type outcome struct {
	firstPlayerWon bool
	isDraw         bool
}

// toMatchResult maps a board outcome to an agent MatchResult, given which
// agent played first in that particular game.
func toMatchResult(o outcome, p1WentFirst bool) MatchResult {
	if o.isDraw {
		return Draw
	}
	if p1WentFirst == o.firstPlayerWon {
		return Player1Win
	}
	return Player2Win
}
