package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

func TestChooseMove_NoAvailableMoves(t *testing.T) {
	// Given: a completely filled board
	board := [9]string{
		game.PlayerX, game.PlayerO, game.PlayerX,
		game.PlayerX, game.PlayerO, game.PlayerO,
		game.PlayerO, game.PlayerX, game.PlayerX,
	}

	// When: either strategy is asked for a move
	for _, strategy := range []Strategy{StrategyOptimal, StrategyRandom} {
		cell, err := ChooseMove(board, game.PlayerX, strategy)

		// Then: an ErrNoAvailableMoves error should be returned
		require.ErrorIs(t, err, ErrNoAvailableMoves)
		assert.Equal(t, -1, cell)
	}
}

func TestChooseMove_RandomStrategy(t *testing.T) {
	// Given: a board with five empty cells
	board := [9]string{
		game.PlayerX, game.PlayerO, game.EmptyCell,
		game.EmptyCell, game.PlayerX, game.EmptyCell,
		game.EmptyCell, game.PlayerO, game.EmptyCell,
	}

	// When: the random strategy is invoked many times
	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		cell, err := ChooseMove(board, game.PlayerO, StrategyRandom)
		require.NoError(t, err)

		// Then: every returned cell is empty on the board
		require.Equal(t, game.EmptyCell, board[cell])
		seen[cell] = true
	}

	// Then: the choices are not degenerate
	assert.GreaterOrEqual(t, len(seen), 3)
}

func TestChooseMove_OptimalStrategy(t *testing.T) {
	t.Run("Blocks the opponent's winning line", func(t *testing.T) {
		// Given: X threatens the first row and O has no win of its own
		board := [9]string{
			game.PlayerX, game.PlayerX, game.EmptyCell,
			game.EmptyCell, game.PlayerO, game.EmptyCell,
			game.EmptyCell, game.EmptyCell, game.EmptyCell,
		}

		// When: O asks for its move
		cell, err := ChooseMove(board, game.PlayerO, StrategyOptimal)

		// Then: cell 2 is the only move that does not lose
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Completes its own winning line", func(t *testing.T) {
		// Given: O can win on the first row while X threatens the second
		board := [9]string{
			game.PlayerO, game.PlayerO, game.EmptyCell,
			game.PlayerX, game.PlayerX, game.EmptyCell,
			game.EmptyCell, game.EmptyCell, game.EmptyCell,
		}

		// When: O asks for its move
		cell, err := ChooseMove(board, game.PlayerO, StrategyOptimal)

		// Then: O takes its own win at cell 2
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Takes an immediate win over a block", func(t *testing.T) {
		// Given: both sides have an open row, O to move
		board := [9]string{
			game.PlayerX, game.PlayerX, game.EmptyCell,
			game.PlayerO, game.PlayerO, game.EmptyCell,
			game.EmptyCell, game.EmptyCell, game.EmptyCell,
		}

		// When: O asks for its move
		cell, err := ChooseMove(board, game.PlayerO, StrategyOptimal)

		// Then: finishing the second row beats blocking the first
		require.NoError(t, err)
		assert.Equal(t, 5, cell)
	})

	t.Run("Unrecognized strategy plays at full strength", func(t *testing.T) {
		// Given: the forced-block position again
		board := [9]string{
			game.PlayerX, game.PlayerX, game.EmptyCell,
			game.EmptyCell, game.PlayerO, game.EmptyCell,
			game.EmptyCell, game.EmptyCell, game.EmptyCell,
		}

		// When: an unknown strategy name is passed
		cell, err := ChooseMove(board, game.PlayerO, Strategy("banana"))

		// Then: the engine still finds the only saving move
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})
}

func TestOptimal_CenterOpeningEndsInDraw(t *testing.T) {
	// Given: X opens in the center against an optimal O
	session := game.NewSession(game.PlayerX)
	require.NoError(t, session.ApplyMove(4))

	// When: both sides play optimally to the end
	playOut(t, session, StrategyOptimal, StrategyOptimal)

	// Then: the game is a tie
	assert.Equal(t, game.PlayerTie, session.Winner)
}

func TestOptimal_SelfPlayAlwaysDraws(t *testing.T) {
	for opening := 0; opening < 9; opening++ {
		// Given: X opens on each cell in turn
		session := game.NewSession(game.PlayerX)
		require.NoError(t, session.ApplyMove(opening))

		// When: both sides play optimally to the end
		playOut(t, session, StrategyOptimal, StrategyOptimal)

		// Then: no opening lets either side win
		assert.Equal(t, game.PlayerTie, session.Winner, "opening %d", opening)
	}
}

func TestOptimal_NeverLosesToRandomPlay(t *testing.T) {
	t.Run("As the second mover", func(t *testing.T) {
		// When: an optimal O faces 200 randomly playing X games
		for i := 0; i < 200; i++ {
			session := game.NewSession(game.PlayerX)
			playOut(t, session, StrategyRandom, StrategyOptimal)

			// Then: X never wins
			assert.NotEqual(t, game.PlayerX, session.Winner)
		}
	})

	t.Run("As the first mover", func(t *testing.T) {
		// When: an optimal X faces 200 randomly playing O games
		for i := 0; i < 200; i++ {
			session := game.NewSession(game.PlayerX)
			playOut(t, session, StrategyOptimal, StrategyRandom)

			// Then: O never wins
			assert.NotEqual(t, game.PlayerO, session.Winner)
		}
	})
}

// playOut drives the session to its end, picking each move with the
// strategy assigned to the mark whose turn it is.
func playOut(t *testing.T, session *game.Session, xStrategy, oStrategy Strategy) {
	t.Helper()

	for !session.IsFinished() {
		strategy := xStrategy
		if session.Turn == game.PlayerO {
			strategy = oStrategy
		}

		cell, err := ChooseMove(session.Board, session.Turn, strategy)
		require.NoError(t, err)
		require.NoError(t, session.ApplyMove(cell))
	}
}
