package domain

// RoomID names a broadcast scope. Rooms have no creation step: they
// spring into existence on first join and cease to exist when the last
// member leaves.
type RoomID string

// DefaultRoom is where clients land when they join without naming a room.
const DefaultRoom RoomID = "general"

// SystemUsername is the author of join/leave/welcome messages.
const SystemUsername = "System"
