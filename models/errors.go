package models

// DomainError is a stable, client-distinguishable error kind. The code is
// what API consumers switch on; the message is a default operator-facing text.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrTableNotFound          = NewDomainError("TABLE_NOT_FOUND", "Table not found")
	ErrDuplicateTableNumber   = NewDomainError("DUPLICATE_TABLE_NUMBER", "Table number already in use")
	ErrInvalidCapacity        = NewDomainError("INVALID_CAPACITY", "Capacity must be greater than zero")
	ErrUnknownArea            = NewDomainError("UNKNOWN_AREA", "Area is not registered")
	ErrInvalidTransition      = NewDomainError("INVALID_TRANSITION", "Status transition not allowed from current status")
	ErrConcurrentModification = NewDomainError("CONCURRENT_MODIFICATION", "Table was modified by another request, re-check state")
	ErrSessionAlreadyOpen     = NewDomainError("SESSION_ALREADY_OPEN", "Table already has an open usage session")
	ErrNoOpenSession          = NewDomainError("NO_OPEN_SESSION", "Table has no open usage session")
	ErrSessionClosed          = NewDomainError("SESSION_CLOSED", "Usage session is closed and immutable")
	ErrInvalidMilestoneOrder  = NewDomainError("INVALID_MILESTONE_ORDER", "Milestone timestamp is earlier than the recorded one")
	ErrAreaInUse              = NewDomainError("AREA_IN_USE", "Area is still referenced by active tables")
	ErrDuplicateArea          = NewDomainError("DUPLICATE_AREA", "Area value already exists")
	ErrTableInUse             = NewDomainError("TABLE_IN_USE", "Table has an open usage session, release it first")
	ErrTokenNotFound          = NewDomainError("TOKEN_NOT_FOUND", "QR token not found")
	ErrUnknownMilestone       = NewDomainError("UNKNOWN_MILESTONE", "Unknown milestone kind")
)
