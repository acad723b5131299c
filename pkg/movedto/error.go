package movedto

// Error codes returned to API clients.
const (
	CodeBadRequest  = "bad_request"
	CodeBadBoard    = "bad_board"
	CodeBadMove     = "bad_move"
	CodeBadPlayer   = "bad_player"
	CodeBadFEN      = "bad_fen"
	CodeTooLarge    = "too_large"
	CodeNotFound    = "not_found"
	CodeInternal    = "internal"
	CodeUnavailable = "unavailable"
)

// DomainError is the JSON error body for transport-level failures. Illegal
// moves are never reported through it.
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "move check error"
}

// ErrorResponse wraps a DomainError on the wire.
type ErrorResponse struct {
	Error DomainError `json:"error"`
}
