package models

import "time"

// DrawnNumber is one ball called in a room. Append-only; Seq starts at 1 and
// is strictly increasing, Value is unique within the room.
type DrawnNumber struct {
	ID       int64     `json:"id"`
	RoomID   int64     `json:"room_id"`
	Seq      int       `json:"seq"`
	Value    int       `json:"value"`
	CalledBy int64     `json:"called_by"`
	CalledAt time.Time `json:"called_at"`
}
