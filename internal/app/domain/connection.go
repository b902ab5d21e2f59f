package domain

// Connection represents the properties needed to reach a database listener and
// authenticate against a service.
type Connection struct {
	HostnameOrAddress string `json:"hostnameOrAddress"`
	Name              string `json:"name,omitempty"`
	Password          string `json:"password"`
	Port              int    `json:"port"`
	ServiceName       string `json:"serviceName"`
	Username          string `json:"username"`
}

// Descriptor returns the connection descriptor addressed by the connection.
func (c *Connection) Descriptor() Descriptor {
	return Descriptor{
		Host:        c.HostnameOrAddress,
		Port:        c.Port,
		ServiceName: c.ServiceName,
	}
}

// Redacted renders the connection as user@host:port/service with no password.
func (c *Connection) Redacted() string {
	if len(c.Username) == 0 {
		return c.Descriptor().String()
	}

	return c.Username + "@" + c.Descriptor().String()
}
