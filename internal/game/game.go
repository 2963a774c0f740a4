package game

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

var (
	ErrInvalidCell = errors.New("invalid cell index")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Session holds one round between the human and the bot.
// X always makes the first move, no matter which side holds it.
// Once the session is finished it stays finished; a new session
// must be created to play again.
type Session struct {
	Board     [9]string
	Turn      string
	Winner    string
	WinLine   []int
	Status    string
	HumanMark string
	BotMark   string

	stateChanged []func(Snapshot)
	gameEnded    []func(Snapshot)
}

// Snapshot is a detached copy of the session state handed to
// observers and transports. Mutating it never touches the session.
type Snapshot struct {
	Board     [9]string `json:"board"`
	Turn      string    `json:"turn"`
	Finished  bool      `json:"finished"`
	Winner    string    `json:"winner,omitempty"`
	WinLine   []int     `json:"win_line,omitempty"`
	HumanMark string    `json:"human_mark"`
	BotMark   string    `json:"bot_mark"`
}

// NewSession - creates a fresh session. An unrecognized human mark
// falls back to X.
func NewSession(humanMark string) *Session {
	if humanMark != PlayerX && humanMark != PlayerO {
		humanMark = PlayerX
	}

	return &Session{
		Board:     [9]string{},
		Turn:      PlayerX,
		Status:    StatusOngoing,
		HumanMark: humanMark,
		BotMark:   Opponent(humanMark),
	}
}

// Opponent returns the other mark.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// IsLegal reports whether the cell can be played right now.
func (that *Session) IsLegal(cell int) bool {
	if that.IsFinished() {
		return false
	}

	if cell < 0 || cell >= len(that.Board) {
		return false
	}

	return that.Board[cell] == EmptyCell
}

// ApplyMove - places the mark whose turn it is on the given cell.
// Illegal requests leave the session untouched and come back as
// sentinel errors; stray input is expected and never panics.
func (that *Session) ApplyMove(cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = that.Turn

	switch winner, line := TerminalCheck(that.Board); winner {
	case PlayerX, PlayerO:
		that.Winner = winner
		that.WinLine = line
		that.Status = StatusFinished
		that.Turn = EmptyCell
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell
	default:
		that.Turn = Opponent(that.Turn)
	}

	that.notify()

	return nil
}

// TerminalCheck - pure terminal detection over a board. Returns the
// winning mark and its triple, PlayerTie for a full board with no
// line, or an empty mark while the game is still open. Triples are
// scanned in the fixed WinCombos order (rows, columns, diagonals),
// so the reported line is deterministic.
func TerminalCheck(board [9]string) (string, []int) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a, []int{combo[0], combo[1], combo[2]}
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return "", nil
		}
	}

	return PlayerTie, nil
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsHumanTurn() bool {
	return !that.IsFinished() && that.Turn == that.HumanMark
}

func (that *Session) IsBotTurn() bool {
	return !that.IsFinished() && that.Turn == that.BotMark
}

// OnStateChanged registers a callback fired after every legal move.
func (that *Session) OnStateChanged(fn func(Snapshot)) {
	that.stateChanged = append(that.stateChanged, fn)
}

// OnGameEnded registers a callback fired once, when the session
// becomes terminal.
func (that *Session) OnGameEnded(fn func(Snapshot)) {
	that.gameEnded = append(that.gameEnded, fn)
}

// Snapshot returns a detached copy of the current state.
func (that *Session) Snapshot() Snapshot {
	var line []int
	if that.WinLine != nil {
		line = append(line, that.WinLine...)
	}

	return Snapshot{
		Board:     that.Board,
		Turn:      that.Turn,
		Finished:  that.IsFinished(),
		Winner:    that.Winner,
		WinLine:   line,
		HumanMark: that.HumanMark,
		BotMark:   that.BotMark,
	}
}

func (that *Session) notify() {
	snapshot := that.Snapshot()

	for _, fn := range that.stateChanged {
		fn(snapshot)
	}

	if !that.IsFinished() {
		return
	}

	for _, fn := range that.gameEnded {
		fn(snapshot)
	}
}
