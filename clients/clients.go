package clients

import (
	"github.com/zishang520/socket.io/v2/socket"
)

// Client represents one connected viewer socket. A user may hold several
// concurrent connections (multiple tabs); each is its own Client.
type Client struct {
	ID     string
	Socket *socket.Socket
	UserID string
}
