// Package domain contains shared definitions.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultHost is the host used when none is supplied
	DefaultHost = "localhost"
	// DefaultPort is the TCP port of a default listener
	DefaultPort = 1521
	// DefaultServiceName is the pluggable database exposed by a default Oracle Free install
	DefaultServiceName = "FREEPDB1"
)

// Descriptor identifies the host, listener port and logical service used to
// address a database instance, rendered as host:port/service.
type Descriptor struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	ServiceName string `json:"serviceName"`
}

// DefaultDescriptor returns the descriptor for a local Oracle Free instance.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		Host:        DefaultHost,
		Port:        DefaultPort,
		ServiceName: DefaultServiceName,
	}
}

// ParseDescriptor parses a connection descriptor of the form host:port/service.
// The port may be omitted (host/service) in which case DefaultPort is used.
func ParseDescriptor(raw string) (Descriptor, error) {
	d := Descriptor{}

	value := strings.TrimSpace(raw)
	if len(value) == 0 {
		return d, fmt.Errorf("empty connection descriptor")
	}

	address, service, found := strings.Cut(value, "/")
	if !found {
		return d, fmt.Errorf(`invalid connection descriptor "%s": expected host:port/service`, raw)
	}

	d.ServiceName = strings.TrimSpace(service)

	host, port, found := strings.Cut(address, ":")
	d.Host = strings.TrimSpace(host)
	if !found {
		d.Port = DefaultPort
	} else {
		parsed, err := strconv.Atoi(strings.TrimSpace(port))
		if err != nil {
			return d, fmt.Errorf(`invalid port in connection descriptor "%s": %w`, raw, err)
		}
		d.Port = parsed
	}

	if err := d.Validate(); err != nil {
		return d, err
	}

	return d, nil
}

// String renders the descriptor as host:port/service.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s:%d/%s", d.Host, d.Port, d.ServiceName)
}

// Validate checks that all descriptor fields are present and that the port is
// a valid TCP port.
func (d Descriptor) Validate() error {
	if len(strings.TrimSpace(d.Host)) == 0 {
		return fmt.Errorf("connection descriptor has no host")
	}

	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("connection descriptor port %d is not a valid TCP port", d.Port)
	}

	if len(strings.TrimSpace(d.ServiceName)) == 0 {
		return fmt.Errorf("connection descriptor has no service name")
	}

	return nil
}
