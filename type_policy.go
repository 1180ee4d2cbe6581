package taxlot

import "fmt"

// MatchingPolicy defines how a disposal selects the lots it consumes.
type MatchingPolicy int

const (
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO MatchingPolicy = iota
	// LIFO (Last-In, First-Out) consumes the newest lots first.
	LIFO
	// Specific consumes an explicit caller-supplied list of (lot, quantity) pairs.
	Specific
	// HighestCost consumes the lots with the highest cost basis per unit first.
	HighestCost
	// LowestCost consumes the lots with the lowest cost basis per unit first.
	LowestCost
)

func (p MatchingPolicy) String() string {
	switch p {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case Specific:
		return "specific"
	case HighestCost:
		return "highest-cost"
	case LowestCost:
		return "lowest-cost"
	default:
		return "unknown"
	}
}

// ParseMatchingPolicy parses a string into a MatchingPolicy.
func ParseMatchingPolicy(s string) (MatchingPolicy, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "specific":
		return Specific, nil
	case "highest-cost":
		return HighestCost, nil
	case "lowest-cost":
		return LowestCost, nil
	default:
		return 0, fmt.Errorf("unknown matching policy: %q", s)
	}
}
