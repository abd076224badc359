package models

// TableStatus is the lifecycle state of a dining table. The five values are
// fixed; anything else is rejected at the API boundary.
type TableStatus string

const (
	StatusAvailable  TableStatus = "available"
	StatusOccupied   TableStatus = "occupied"
	StatusReserved   TableStatus = "reserved"
	StatusCleaning   TableStatus = "cleaning"
	StatusOutOfOrder TableStatus = "out_of_order"
)

// AllowedTransitions is the full edge list of the status state machine.
// occupied has no direct edge back to available: release always passes
// through cleaning so turnover shows up in the ledger and on the floor plan.
var AllowedTransitions = map[TableStatus][]TableStatus{
	StatusAvailable:  {StatusOccupied, StatusReserved, StatusOutOfOrder},
	StatusOccupied:   {StatusCleaning, StatusOutOfOrder},
	StatusReserved:   {StatusOccupied, StatusAvailable, StatusOutOfOrder},
	StatusCleaning:   {StatusAvailable, StatusOutOfOrder},
	StatusOutOfOrder: {StatusAvailable},
}

// ParseTableStatus validates a raw string against the five known states.
func ParseTableStatus(s string) (TableStatus, bool) {
	switch TableStatus(s) {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusCleaning, StatusOutOfOrder:
		return TableStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether from -> to is an allowed edge. Resubmitting
// the current status is not allowed; callers use the rejection to detect
// stale-state races.
func (from TableStatus) CanTransitionTo(to TableStatus) bool {
	for _, t := range AllowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// DisplayLabel is the operator-facing name for a status.
func (s TableStatus) DisplayLabel() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusOccupied:
		return "Occupied"
	case StatusReserved:
		return "Reserved"
	case StatusCleaning:
		return "Cleaning"
	case StatusOutOfOrder:
		return "Out of Order"
	}
	return string(s)
}
