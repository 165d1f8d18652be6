package player

// Status is the playback state of a Player.
type Status int

const (
	// Idle means no resource is held.
	Idle Status = iota
	// Loading means a resolution attempt is outstanding.
	Loading
	// Playing means the renderer is animating.
	Playing
	// Paused means an entity is held and the renderer is halted mid-cycle.
	Paused
	// Stopped means an entity is held and parked on the lead or trail frame.
	Stopped
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// transitions lists the status changes the player is expected to make.
// Anything else is logged; it is never rejected.
var transitions = map[Status][]Status{
	Idle:    {Loading, Playing, Paused, Stopped},
	Loading: {Idle, Playing, Paused, Stopped},
	Playing: {Idle, Paused, Stopped},
	Paused:  {Idle, Playing, Stopped},
	Stopped: {Idle, Loading, Playing, Paused},
}

func expectedTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
