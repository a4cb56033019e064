package overlay

// State is the overlay's position in its open/close cycle.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

var stateNames = [...]string{"closed", "opening", "open", "closing"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Edge is an allowed state change and the event that causes it.
type Edge struct {
	From  State
	To    State
	Event string
}

// Edges lists every state change the controller can make.
var Edges = []Edge{
	{Closed, Opening, "show"},
	{Opening, Open, "transition done"},
	{Opening, Open, "resize"},
	{Opening, Closing, "hide"},
	{Open, Closing, "hide"},
	{Closing, Closed, "transition done"},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to State) bool {
	for _, e := range Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}
