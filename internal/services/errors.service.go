package services

import "fmt"

// ErrorKind tags a bridge failure so internal callers can match on it
// while the boundary still renders a plain message string.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindReadError
	KindWriteError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindReadError:
		return "read_error"
	case KindWriteError:
		return "write_error"
	default:
		return "unknown"
	}
}

// BridgeError carries an error kind plus the original system message.
// The UI layer displays Error() as-is.
type BridgeError struct {
	Kind    ErrorKind
	Message string
}

func (e *BridgeError) Error() string {
	return e.Message
}

func notFoundf(format string, args ...interface{}) *BridgeError {
	return &BridgeError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func readErrorf(format string, args ...interface{}) *BridgeError {
	return &BridgeError{Kind: KindReadError, Message: fmt.Sprintf(format, args...)}
}

func writeErrorf(format string, args ...interface{}) *BridgeError {
	return &BridgeError{Kind: KindWriteError, Message: fmt.Sprintf(format, args...)}
}
