package coordinator

import "github.com/rocketscienceinc/gameroom-backend/internal/entity"

// Inbound actions the coordinator accepts from the transport.
const (
	ActionJoin           = "join"
	ActionMakeMove       = "make-move"
	ActionRequestRematch = "request-rematch"
	ActionLeave          = "leave"
)

// Outbound actions the coordinator emits through the channel.
const (
	ActionRoomUpdate   = "room-update"
	ActionJoinError    = "join-error"
	ActionRematchVotes = "rematch-votes"
)

const DefaultRoomID = "default"

type PlayerInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// You identifies the receiving connection inside a room snapshot. It
// is only ever delivered via unicast to the connection that joined.
type You struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

// RoomUpdate is the canonical room snapshot broadcast after every
// state-changing transition.
type RoomUpdate struct {
	Players []PlayerInfo `json:"players"`
	Board   [9]string    `json:"board"`
	Turn    string       `json:"turn"`
	Status  string       `json:"status"`
	Winner  string       `json:"winner,omitempty"`
	You     *You         `json:"you,omitempty"`
}

type RematchVotes struct {
	Votes  int `json:"votes"`
	Needed int `json:"needed"`
}

func snapshot(room *entity.Room) RoomUpdate {
	players := room.SortedPlayers()

	infos := make([]PlayerInfo, 0, len(players))
	for _, player := range players {
		infos = append(infos, PlayerInfo{Name: player.Name, Symbol: player.Symbol})
	}

	return RoomUpdate{
		Players: infos,
		Board:   room.Board,
		Turn:    room.Turn,
		Status:  room.Status,
		Winner:  room.Winner,
	}
}
