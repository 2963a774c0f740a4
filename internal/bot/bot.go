package bot

import (
	"errors"
	"math"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

// Strategy selects how the bot picks its moves.
type Strategy string

const (
	// StrategyOptimal searches the full game tree and never loses.
	StrategyOptimal Strategy = "optimal"
	// StrategyRandom plays a uniformly random empty cell.
	StrategyRandom Strategy = "random"
)

var ErrNoAvailableMoves = errors.New("no available moves")

const winScore = 10

// ChooseMove - picks a cell for the given mark on the given board.
// The board is a private copy, the caller's state is never touched.
// An unrecognized strategy plays at full strength. Returns
// ErrNoAvailableMoves only when the board has no empty cell.
func ChooseMove(board [9]string, mark string, strategy Strategy) (int, error) {
	availableCells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == game.EmptyCell {
			availableCells = append(availableCells, i)
		}
	}

	if len(availableCells) == 0 {
		return -1, ErrNoAvailableMoves
	}

	if strategy == StrategyRandom {
		return availableCells[rand.Intn(len(availableCells))], nil //nolint: gosec // it's ok
	}

	return bestMove(&board, mark, availableCells), nil
}

// bestMove scores every available cell with a full minimax search and
// picks uniformly among the top scorers. Each root candidate is
// searched with a fresh window so pruning never hides a tie.
func bestMove(board *[9]string, mark string, availableCells []int) int {
	bestScore := math.MinInt
	bestCells := make([]int, 0, len(availableCells))

	for _, cell := range availableCells {
		board[cell] = mark
		score := minimax(board, mark, game.Opponent(mark), 1, math.MinInt, math.MaxInt)
		board[cell] = game.EmptyCell

		switch {
		case score > bestScore:
			bestScore = score
			bestCells = append(bestCells[:0], cell)
		case score == bestScore:
			bestCells = append(bestCells, cell)
		}
	}

	return bestCells[rand.Intn(len(bestCells))] //nolint: gosec // it's ok
}

// minimax walks the remaining game tree for self, alternating
// maximizing and minimizing layers, mutating and restoring the one
// shared scratch board. Leaves score winScore minus ply depth for a
// win, the negation for a loss, zero for a tie, so faster wins and
// slower losses rank higher. Alpha-beta cutoffs only skip branches
// that cannot change the result.
func minimax(board *[9]string, self, turn string, depth, alpha, beta int) int {
	switch winner, _ := game.TerminalCheck(*board); winner {
	case self:
		return winScore - depth
	case game.Opponent(self):
		return depth - winScore
	case game.PlayerTie:
		return 0
	}

	if turn == self {
		best := math.MinInt
		for i := range board {
			if board[i] != game.EmptyCell {
				continue
			}

			board[i] = turn
			score := minimax(board, self, game.Opponent(turn), depth+1, alpha, beta)
			board[i] = game.EmptyCell

			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}

		return best
	}

	best := math.MaxInt
	for i := range board {
		if board[i] != game.EmptyCell {
			continue
		}

		board[i] = turn
		score := minimax(board, self, game.Opponent(turn), depth+1, alpha, beta)
		board[i] = game.EmptyCell

		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}

	return best
}
