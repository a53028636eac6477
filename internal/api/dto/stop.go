package dto

import "time"

type StopRequest struct {
	Position int        `json:"position" validate:"required,gt=0"`
	Address  string     `json:"address" validate:"required,max=512"`
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

type ReplaceStopsRequest struct {
	Stops []StopRequest `json:"stops" validate:"required,max=100,dive"`
}

type StopResponse struct {
	Position int        `json:"position"`
	Address  string     `json:"address"`
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
