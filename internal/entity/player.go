package entity

const DefaultPlayerName = "Player"

type Player struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
