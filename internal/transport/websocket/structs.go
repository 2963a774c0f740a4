package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the client's side of an action.
type RequestPayload struct {
	PlayerID   string `json:"player_id,omitempty"`
	Mark       string `json:"mark,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Cell       int    `json:"cell"`
}

type ResponsePayload struct {
	PlayerID string        `json:"player_id,omitempty"`
	Game     *GameResponse `json:"game,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type GameResponse struct {
	Board     [9]string `json:"board"`
	Turn      string    `json:"turn"`
	Finished  bool      `json:"finished"`
	Winner    string    `json:"winner,omitempty"`
	WinLine   []int     `json:"win_line,omitempty"`
	HumanMark string    `json:"human_mark"`
	BotMark   string    `json:"bot_mark"`
}

func newGameResponse(snapshot game.Snapshot) *GameResponse {
	return &GameResponse{
		Board:     snapshot.Board,
		Turn:      snapshot.Turn,
		Finished:  snapshot.Finished,
		Winner:    snapshot.Winner,
		WinLine:   snapshot.WinLine,
		HumanMark: snapshot.HumanMark,
		BotMark:   snapshot.BotMark,
	}
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}
