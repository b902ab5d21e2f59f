package diagnose

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
)

// probe is a single stage of the diagnosis checklist
type probe struct {
	stage string
	run   func(ctx context.Context) error
}

// probesFor builds the checklist for a connection in runbook order: name
// resolution, listener reachability, authentication, then the trivial query.
// The client is shared so the query stage reuses the authenticated session.
func (svc *DiagnosticsService) probesFor(connection *domain.Connection, client *domain.Client) []probe {
	address := net.JoinHostPort(connection.HostnameOrAddress, strconv.Itoa(client.Connection.Port))

	return []probe{
		{
			stage: StageResolve,
			run: func(ctx context.Context) error {
				addrs, err := svc.resolver.LookupHost(ctx, connection.HostnameOrAddress)
				if err != nil {
					return fmt.Errorf(`failed to resolve host "%s": %w`, connection.HostnameOrAddress, err)
				}

				if len(addrs) == 0 {
					return fmt.Errorf(`host "%s" resolved to no addresses`, connection.HostnameOrAddress)
				}

				return nil
			},
		},
		{
			stage: StageReach,
			run: func(ctx context.Context) error {
				conn, err := svc.dialer.DialContext(ctx, "tcp", address)
				if err != nil {
					return fmt.Errorf("failed to reach the listener at %s: %w", address, err)
				}

				_ = conn.Close()
				return nil
			},
		},
		{
			stage: StageAuthenticate,
			run: func(ctx context.Context) error {
				return svc.ClientServices.Connect(ctx, client)
			},
		},
		{
			stage: StageQuery,
			run: func(ctx context.Context) error {
				return svc.ClientServices.Verify(ctx, client)
			},
		},
	}
}
