package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	var payload RequestPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal player info: %w", err)
	}

	playerID := payload.PlayerID
	if playerID == "" {
		playerID = GenerateNewSessionID()
		that.logger.Info("Registered new player", "playerID", playerID)
	} else {
		that.logger.Info("Player connected", "playerID", playerID)
	}

	responsePayload := ResponsePayload{PlayerID: playerID}

	snapshot, err := that.games.ActiveGame(ctx, playerID)
	switch {
	case err == nil:
		responsePayload.Game = newGameResponse(snapshot)
	case errors.Is(err, repository.ErrSessionNotFound):
		// first visit, nothing to restore
	default:
		return fmt.Errorf("failed to check active game: %w", err)
	}

	if err := that.sendMessage(*bufrw, msg.Action, responsePayload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	var payload RequestPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal player info: %w", err)
	}

	snapshot, err := that.games.NewGame(ctx, payload.PlayerID, payload.Mark, payload.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to create new game: %w", err)
	}

	if err = that.subscribe(payload.PlayerID, bufrw); err != nil {
		return fmt.Errorf("failed to subscribe to game: %w", err)
	}

	responsePayload := ResponsePayload{
		PlayerID: payload.PlayerID,
		Game:     newGameResponse(snapshot),
	}

	if err := that.sendMessage(*bufrw, msg.Action, responsePayload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleTurn(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	var payload RequestPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal player info: %w", err)
	}

	snapshot, err := that.games.MakeTurn(ctx, payload.PlayerID, payload.Cell)
	if err != nil {
		if !isRuleViolation(err) {
			return fmt.Errorf("failed to make turn: %w", err)
		}

		// stray clicks come back as a payload error, the connection stays up
		responsePayload := ResponsePayload{
			PlayerID: payload.PlayerID,
			Game:     newGameResponse(snapshot),
			Error:    err.Error(),
		}

		return that.sendMessage(*bufrw, msg.Action, responsePayload)
	}

	responsePayload := ResponsePayload{
		PlayerID: payload.PlayerID,
		Game:     newGameResponse(snapshot),
	}

	if err := that.sendMessage(*bufrw, msg.Action, responsePayload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// subscribe wires the session observers to push messages so the
// client sees every board change and the final result.
func (that *Server) subscribe(playerID string, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "subscribe", "playerID", playerID)

	onStateChanged := func(snapshot game.Snapshot) {
		responsePayload := ResponsePayload{
			PlayerID: playerID,
			Game:     newGameResponse(snapshot),
		}
		if err := that.sendMessage(*bufrw, "game:state", responsePayload); err != nil {
			log.Error("failed to push game state", "error", err)
		}
	}

	onGameEnded := func(snapshot game.Snapshot) {
		responsePayload := ResponsePayload{
			PlayerID: playerID,
			Game:     newGameResponse(snapshot),
		}
		if err := that.sendMessage(*bufrw, "game:over", responsePayload); err != nil {
			log.Error("failed to push game result", "error", err)
		}
	}

	if err := that.games.Subscribe(playerID, onStateChanged, onGameEnded); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

func isRuleViolation(err error) bool {
	return errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrNoActiveGames) ||
		errors.Is(err, game.ErrInvalidCell)
}
