package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a snapshot of a running session
	snapshot := game.Snapshot{
		Board:     [9]string{game.PlayerX, "", "", "", game.PlayerO, "", "", "", ""},
		Turn:      game.PlayerX,
		HumanMark: game.PlayerX,
		BotMark:   game.PlayerO,
	}

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, "player-123", snapshot)

	// Then: no error should be returned, and the snapshot is stored
	require.NoError(t, err)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored snapshot of a finished session
		snapshot := game.Snapshot{
			Board: [9]string{
				game.PlayerX, game.PlayerX, game.PlayerX,
				game.PlayerO, game.PlayerO, "", "", "", "",
			},
			Finished:  true,
			Winner:    game.PlayerX,
			WinLine:   []int{0, 1, 2},
			HumanMark: game.PlayerX,
			BotMark:   game.PlayerO,
		}

		err := sessionRepo.CreateOrUpdate(ctx, "player-123", snapshot)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := sessionRepo.GetByID(ctx, "player-123")

		// Then: the retrieved snapshot matches the saved one
		require.NoError(t, err)
		require.Equal(t, snapshot, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "nobody")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, ErrSessionNotFound)
		assert.Empty(t, retrieved.Turn)
		assert.False(t, retrieved.Finished)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a stored snapshot
	snapshot := game.Snapshot{Turn: game.PlayerO, HumanMark: game.PlayerO, BotMark: game.PlayerX}
	err := sessionRepo.CreateOrUpdate(ctx, "player-123", snapshot)
	require.NoError(t, err)

	// When: DeleteByID is called with the existing ID
	err = sessionRepo.DeleteByID(ctx, "player-123")

	// Then: no error should be returned and the snapshot is gone
	require.NoError(t, err)

	_, err = sessionRepo.GetByID(ctx, "player-123")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
