// Package petrinet implements the Place/Transition net data model used as
// the translation target for the deadlock translator: places, transitions,
// weighted arcs and an initial marking, per spec.md §3.
package petrinet

// PlaceRef is an opaque, stable reference to a place, returned by Builder.
// It remains valid for the lifetime of the Builder that created it.
type PlaceRef struct{ id int }

// TransitionRef is an opaque, stable reference to a transition, returned by
// Builder. It remains valid for the lifetime of the Builder that created it.
type TransitionRef struct{ id int }

// Direction distinguishes the two arc shapes a Place/Transition net allows.
type Direction int

const (
	// In is a place -> transition arc (the transition consumes tokens).
	In Direction = iota
	// Out is a transition -> place arc (the transition produces tokens).
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Place is one node of the net, named and potentially initially marked.
type Place struct {
	Ref   PlaceRef
	Label string
}

// Transition is one node of the net, named.
type Transition struct {
	Ref   TransitionRef
	Label string
}

// Arc is a single weighted edge, directed per Direction.
type Arc struct {
	Place      PlaceRef
	Transition TransitionRef
	Direction  Direction
	Weight     int
}

// Net is the finished, immutable Place/Transition net: (P, T, F, W, M0).
// It is produced by Builder.Net and consumed by downstream serializers and
// the external model checker, neither of which is implemented by this
// module (spec.md §1).
type Net struct {
	places      []Place
	transitions []Transition
	arcs        []Arc
	marking     map[PlaceRef]int
}

// Places returns every place in the net, in creation order.
func (n *Net) Places() []Place { return append([]Place(nil), n.places...) }

// Transitions returns every transition in the net, in creation order.
func (n *Net) Transitions() []Transition { return append([]Transition(nil), n.transitions...) }

// Arcs returns every arc in the net, in creation order.
func (n *Net) Arcs() []Arc { return append([]Arc(nil), n.arcs...) }

// Marking returns the initial token count of p (zero if never set).
func (n *Net) Marking(p PlaceRef) int { return n.marking[p] }

// PlaceLabel returns the label of a place reference, or "" if unknown.
func (n *Net) PlaceLabel(p PlaceRef) string {
	for _, pl := range n.places {
		if pl.Ref == p {
			return pl.Label
		}
	}
	return ""
}

// TransitionLabel returns the label of a transition reference, or "" if unknown.
func (n *Net) TransitionLabel(t TransitionRef) string {
	for _, tr := range n.transitions {
		if tr.Ref == t {
			return tr.Label
		}
	}
	return ""
}
