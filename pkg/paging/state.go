package paging

// Direction is the direction of the most recent page transition.
type Direction int

const (
	// DirectionNone means no transition has happened yet.
	DirectionNone Direction = iota
	// DirectionNext is a forward transition.
	DirectionNext
	// DirectionPrev is a backward transition.
	DirectionPrev
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrev:
		return "prev"
	case DirectionNone:
	}

	return "none"
}

// State is a snapshot of a [Navigator].
type State struct {
	// CurrentPage is 1-indexed, and always within [1, PagesCount].
	CurrentPage int
	// PagesCount is fixed for the lifetime of the navigator.
	PagesCount int
	// Direction is observational only, it never gates navigation.
	Direction Direction
	// IsAnimating is true while a transition is in progress.
	IsAnimating bool
}

// CanGoNext reports whether a forward transition is within bounds.
// It does not consider the animation lock.
func (s State) CanGoNext() bool {
	return s.CurrentPage < s.PagesCount
}

// CanGoPrev reports whether a backward transition is within bounds.
// It does not consider the animation lock.
func (s State) CanGoPrev() bool {
	return s.CurrentPage > 1
}
