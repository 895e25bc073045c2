package api

import "fmt"

// Kind classifies a failed backend call.
type Kind int

const (
	// KindNetwork means no response was received at all, including
	// timeouts and cancelled contexts.
	KindNetwork Kind = iota
	// KindRequest means the server responded with a failure status.
	KindRequest
	// KindUnknown covers everything else, such as undecodable payloads.
	KindUnknown
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by the client. Message is
// the human-readable text shown to the user.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, zero for network/unknown errors
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Fixed per-status messages. A server-supplied error field takes
// precedence over these.
var statusMessages = map[int]string{
	400: "Invalid request. Please check your query and try again.",
	401: "Authentication required. Please log in.",
	403: "You do not have permission to run this query.",
	404: "The requested resource was not found.",
	429: "Too many requests. Please wait a moment and try again.",
	500: "The server encountered an error. Please try again later.",
}

const (
	defaultStatusMessage = "The request failed. Please try again."
	networkMessage       = "Unable to reach the server. Please check your connection."
)

// requestError builds a KindRequest error for an HTTP failure status,
// preferring the server-supplied message when present.
func requestError(status int, serverMessage string) *Error {
	msg := serverMessage
	if msg == "" {
		msg = statusMessages[status]
	}
	if msg == "" {
		msg = defaultStatusMessage
	}
	return &Error{Kind: KindRequest, Status: status, Message: msg}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: networkMessage, cause: cause}
}

func unknownError(cause error) *Error {
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf("Unexpected error: %v", cause), cause: cause}
}
