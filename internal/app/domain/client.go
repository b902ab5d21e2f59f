package domain

// Client represents a session with a database service
type Client struct {
	// Connection contains the values used to reach the listener and authenticate
	Connection *Connection
	// Session is the open database handle
	Session any
	// ServiceName is the logical service the session is addressed to
	ServiceName string
}
