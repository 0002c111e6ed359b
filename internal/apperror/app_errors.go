package apperror

import "errors"

var (
	ErrRoomFull       = errors.New("Room Full")
	ErrRoomNotPlaying = errors.New("room is not playing")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidCell    = errors.New("invalid cell index")
)
