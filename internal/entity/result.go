package entity

import "time"

// GameResult is the record kept after a game ends: who won on which
// board. It is history only and never feeds back into room state.
type GameResult struct {
	RoomID     string    `json:"room_id"`
	Winner     string    `json:"winner"`
	Board      [9]string `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}
