package ir

import (
	"fmt"
	"strings"
)

// EdgeID is the arena handle the graph assigns to an edge
type EdgeID int

// EdgeKind represents the classification of an edge between two nodes
type EdgeKind int

const (
	// EdgeNormal represents forward control flow
	EdgeNormal EdgeKind = iota
	// EdgeBack represents flow to an earlier bytecode position (loop continuation)
	EdgeBack
	// EdgeException represents handler reachability; it is never reclassified
	EdgeException
)

// String returns string representation of EdgeKind
func (k EdgeKind) String() string {
	switch k {
	case EdgeNormal:
		return "normal"
	case EdgeBack:
		return "back"
	case EdgeException:
		return "exception"
	default:
		return "unknown"
	}
}

// ParseEdgeKind converts an edge kind name into an EdgeKind.
// An empty name means EdgeNormal.
func ParseEdgeKind(name string) (EdgeKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return EdgeNormal, nil
	case "back", "loop":
		return EdgeBack, nil
	case "exception":
		return EdgeException, nil
	default:
		return EdgeNormal, fmt.Errorf("unknown edge kind %q", name)
	}
}

// Leg marks which side of a boolean branch an edge represents
type Leg int

const (
	// LegNone is carried by every edge that is not a branch leg
	LegNone Leg = iota
	// LegTrue is the edge taken when the branch condition holds
	LegTrue
	// LegFalse is the edge taken when the branch condition does not hold
	LegFalse
)

// LegOf converts a condition value into its leg
func LegOf(condition bool) Leg {
	if condition {
		return LegTrue
	}
	return LegFalse
}

// String returns string representation of Leg
func (l Leg) String() string {
	switch l {
	case LegTrue:
		return "true"
	case LegFalse:
		return "false"
	default:
		return "none"
	}
}

// Edge is a directed edge between two nodes of the same graph.
// Kind and Leg are independent: classification rewrites Kind and
// leaves the condition leg intact.
type Edge struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Kind   EdgeKind
	Leg    Leg
}

// IsCondition reports whether the edge is a branch leg
func (e *Edge) IsCondition() bool {
	return e.Leg != LegNone
}

func (e *Edge) String() string {
	if e.IsCondition() {
		return fmt.Sprintf("e%d(%d->%d %s/%s)", e.ID, e.Source, e.Target, e.Kind, e.Leg)
	}
	return fmt.Sprintf("e%d(%d->%d %s)", e.ID, e.Source, e.Target, e.Kind)
}
