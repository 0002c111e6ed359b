package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusEnded   = "ended"

	SymbolX = "X"
	SymbolO = "O"

	WinnerDraw = "draw"

	EmptyCell = ""

	MaxPlayers = 2
	BoardCells = 9
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Room holds the full state of one game session: up to two players
// keyed by connection id, the board, whose turn it is and the rematch
// votes of the current cycle.
type Room struct {
	ID           string              `json:"id"`
	Players      map[string]*Player  `json:"players"`
	Board        [9]string           `json:"board"`
	Turn         string              `json:"turn"`
	Status       string              `json:"status"`
	Winner       string              `json:"winner,omitempty"`
	RematchVotes map[string]struct{} `json:"-"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		Players:      make(map[string]*Player),
		Turn:         SymbolX,
		Status:       StatusWaiting,
		RematchVotes: make(map[string]struct{}),
	}
}

// StartNewGame resets the room to a fresh playing state. Used both
// when the second player joins and when a rematch passes.
func (that *Room) StartNewGame() {
	that.Board = [9]string{}
	that.Turn = SymbolX
	that.Status = StatusPlaying
	that.Winner = EmptyCell
	that.RematchVotes = make(map[string]struct{})
}

// FreeSymbol returns the symbol the next joiner should get: X unless
// X is already taken.
func (that *Room) FreeSymbol() string {
	for _, player := range that.Players {
		if player.Symbol == SymbolX {
			return SymbolO
		}
	}

	return SymbolX
}

func (that *Room) AddPlayer(connID, name string) (*Player, error) {
	if that.IsFull() {
		return nil, apperror.ErrRoomFull
	}

	player := &Player{
		Name:   name,
		Symbol: that.FreeSymbol(),
	}
	that.Players[connID] = player

	return player, nil
}

func (that *Room) RemovePlayer(connID string) {
	delete(that.Players, connID)
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsEnded() bool {
	return that.Status == StatusEnded
}

// ApplyMove writes the player's symbol into the given cell and
// advances the game: either the result is decided and the room ends,
// or the turn flips to the other symbol.
func (that *Room) ApplyMove(symbol string, cell int) error {
	if !that.IsPlaying() {
		return apperror.ErrRoomNotPlaying
	}

	if symbol != that.Turn {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = symbol

	if result := that.DetermineResult(); result != EmptyCell {
		that.Status = StatusEnded
		that.Winner = result
		// turn is left as-is, it carries no meaning once the game ended
		return nil
	}

	that.Turn = toggleSymbol(that.Turn)

	return nil
}

// DetermineResult scans the 8 winning lines in fixed order; the first
// completed line decides the winner. A full board with no line is a
// draw. An empty result means the game continues.
func (that *Room) DetermineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return WinnerDraw
}

// VoteRematch records a rematch vote for the connection. Voting twice
// from the same connection counts once.
func (that *Room) VoteRematch(connID string) {
	that.RematchVotes[connID] = struct{}{}
}

func (that *Room) ClearRematchVotes() {
	that.RematchVotes = make(map[string]struct{})
}

// SortedPlayers returns the players with X first so snapshots are
// deterministic regardless of map iteration order.
func (that *Room) SortedPlayers() []*Player {
	players := make([]*Player, 0, len(that.Players))

	for _, symbol := range []string{SymbolX, SymbolO} {
		for _, player := range that.Players {
			if player.Symbol == symbol {
				players = append(players, player)
			}
		}
	}

	return players
}

func toggleSymbol(symbol string) string {
	if symbol == SymbolX {
		return SymbolO
	}
	return SymbolX
}
