package avplayer

// State is the playback state of a Player.
type State int

const (
	StateUnknown State = iota
	StateUninitialized
	StatePreparing
	StatePrepared
	StatePlaying
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StatePreparing:
		return "Preparing"
	case StatePrepared:
		return "Prepared"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}
