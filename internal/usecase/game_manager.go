package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/bot"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const (
	DifficultyEasy = "easy"
	DifficultyHard = "hard"

	// MarkRandom lets the service flip a coin for the human's mark.
	MarkRandom = "random"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot game.Snapshot) error
	GetByID(ctx context.Context, id string) (game.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager owns the live sessions and drives the game loop: it
// applies the human's move and lets the bot answer within the same
// call. Sessions have no internal locking, so every mutation goes
// through the manager's mutex.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	mu    sync.Mutex
	games map[string]*liveGame
}

type liveGame struct {
	session  *game.Session
	strategy bot.Strategy
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger,
		sessionRepo: sessionRepo,
		games:       make(map[string]*liveGame),
	}
}

// NewGame - starts a fresh session for the player, replacing any
// previous one. humanMark may be a mark or MarkRandom; difficulty
// defaults to hard. When the bot gets X it moves right away.
func (that *GameManager) NewGame(ctx context.Context, playerID, humanMark, difficulty string) (game.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if humanMark == MarkRandom {
		humanMark = randomMark()
	}

	strategy := bot.StrategyOptimal
	if difficulty == DifficultyEasy {
		strategy = bot.StrategyRandom
	}

	live := &liveGame{
		session:  game.NewSession(humanMark),
		strategy: strategy,
	}
	that.games[playerID] = live

	if live.session.IsBotTurn() {
		if err := that.makeBotTurn(live); err != nil {
			return game.Snapshot{}, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err := that.persist(ctx, playerID, live); err != nil {
		return game.Snapshot{}, err
	}

	return live.session.Snapshot(), nil
}

// Subscribe attaches the player's state-changed and game-ended
// observers to their live session.
func (that *GameManager) Subscribe(playerID string, onStateChanged, onGameEnded func(game.Snapshot)) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	live, ok := that.games[playerID]
	if !ok {
		return apperror.ErrNoActiveGames
	}

	if onStateChanged != nil {
		live.session.OnStateChanged(onStateChanged)
	}
	if onGameEnded != nil {
		live.session.OnGameEnded(onGameEnded)
	}

	return nil
}

// MakeTurn - applies the human's move; while the game stays open the
// bot answers before the call returns. Finished sessions are removed
// from the store.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (game.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	live, ok := that.games[playerID]
	if !ok {
		return game.Snapshot{}, apperror.ErrNoActiveGames
	}

	if !live.session.IsHumanTurn() {
		return live.session.Snapshot(), apperror.ErrNotYourTurn
	}

	if err := live.session.ApplyMove(cell); err != nil {
		return live.session.Snapshot(), fmt.Errorf("failed to make turn: %w", err)
	}

	if live.session.IsBotTurn() {
		if err := that.makeBotTurn(live); err != nil {
			return game.Snapshot{}, err
		}
	}

	if err := that.persist(ctx, playerID, live); err != nil {
		return game.Snapshot{}, err
	}

	return live.session.Snapshot(), nil
}

// ActiveGame returns the snapshot of the player's session, falling
// back to the stored copy when the process was restarted.
func (that *GameManager) ActiveGame(ctx context.Context, playerID string) (game.Snapshot, error) {
	that.mu.Lock()
	live, ok := that.games[playerID]
	that.mu.Unlock()

	if ok {
		return live.session.Snapshot(), nil
	}

	snapshot, err := that.sessionRepo.GetByID(ctx, playerID)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to get session: %w", err)
	}

	return snapshot, nil
}

func (that *GameManager) makeBotTurn(live *liveGame) error {
	cell, err := bot.ChooseMove(live.session.Board, live.session.BotMark, live.strategy)
	if err != nil {
		return fmt.Errorf("bot failed to choose move: %w", err)
	}

	if err = live.session.ApplyMove(cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

func (that *GameManager) persist(ctx context.Context, playerID string, live *liveGame) error {
	if live.session.IsFinished() {
		that.cleanupGame(ctx, playerID)
		return nil
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, playerID, live.session.Snapshot()); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *GameManager) cleanupGame(ctx context.Context, playerID string) {
	log := that.logger.With("method", "cleanupGame", "playerID", playerID)

	delete(that.games, playerID)

	if err := that.sessionRepo.DeleteByID(ctx, playerID); err != nil {
		log.Error("failed to delete session", "error", err)
	}
}

func randomMark() string {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return game.PlayerX
	}
	return game.PlayerO
}
