package api

import "fmt"

// Kind classifies a request failure. Every failure surfaces to the user as a
// single message string regardless of kind; the kind exists for logging and
// metrics labels only.
type Kind string

const (
	// KindTransport covers network-level failures before any response arrived.
	KindTransport Kind = "transport"
	// KindHTTP covers non-2xx responses without a usable application error.
	KindHTTP Kind = "http"
	// KindApplication covers 2xx or non-2xx responses whose envelope carries ok:false.
	KindApplication Kind = "application"
)

// Error is the normalized failure contract of the portal client. Message
// always carries the server-provided error string when one exists, otherwise
// a generic "HTTP <status>" form.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error()}
}

func statusError(status int, serverMessage string) *Error {
	if serverMessage != "" {
		return &Error{Kind: KindApplication, Status: status, Message: serverMessage}
	}
	return &Error{Kind: KindHTTP, Status: status, Message: fmt.Sprintf("HTTP %d", status)}
}
