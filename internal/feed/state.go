package feed

// State describes where the fragment of a resolution came from.
type State int

const (
	// Cold means no resolution has been attempted yet.
	Cold State = iota
	// Fresh means the value is younger than the TTL, either cached or just fetched.
	Fresh
	// Stale means a refresh failed and an older cached value was used.
	Stale
	// Unavailable means the refresh failed and nothing was cached.
	Unavailable
)

func (s State) String() string {
	switch s {
	case Cold:
		return "cold"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
