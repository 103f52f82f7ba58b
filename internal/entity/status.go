package entity

// Order statuses
const (
	StatusSubmitted  = "Submitted"  // order first created
	StatusProcessing = "Processing" // order opened/reviewed
	StatusCompleted  = "Completed"  // order delivered
	StatusCancelled  = "Cancelled"  // order cancelled
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func Terminal(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from -> to is a legal status move:
// Submitted -> Processing -> Completed, with Cancelled reachable from any
// non-terminal state. The update path does not enforce this by default;
// it is only applied when the engine runs with strict transitions.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if Terminal(from) {
		return false
	}
	switch to {
	case StatusCancelled:
		return true
	case StatusProcessing:
		return from == StatusSubmitted
	case StatusCompleted:
		return from == StatusProcessing
	}
	return false
}
