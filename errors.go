package nanows

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConnected is returned by operations that require an
	// established connection when none exists.
	ErrNotConnected = errors.New("nanows: not connected")

	// ErrConnect wraps a failed WebSocket handshake or dial.
	ErrConnect = errors.New("nanows: connect failed")

	// ErrConnClosed signals an abnormal closure of an established
	// connection. The receive loop recovers from it by reconnecting;
	// callers normally never see it.
	ErrConnClosed = errors.New("nanows: connection closed")

	// ErrClientClosed is returned by Receive after Close has been called.
	ErrClientClosed = errors.New("nanows: client closed")
)

// ValidationError reports accounts that appear in both the add and the
// delete list of a subscription update. Nothing is sent to the node.
type ValidationError struct {
	Accounts []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("nanows: accounts present in both add and delete lists: %s",
		strings.Join(e.Accounts, ", "))
}
