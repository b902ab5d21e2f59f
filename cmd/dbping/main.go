// Command dbping is a one-shot connectivity probe: it reads the connection
// settings from the environment, opens a session, runs the verification query
// and reports the diagnosis. Exit code 0 means the round trip succeeded, 2
// means the credentials were rejected and 1 covers every other failure.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"github.com/opsbridge/oracle-db-connector/internal/app/oracle"
	"github.com/opsbridge/oracle-db-connector/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %s\n", err.Error())
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clients := oracle.NewOracleClients()

	connection := cfg.Connection
	client := clients.NewClient(&connection, connection.ServiceName)
	defer clients.Close(client)

	if err = clients.Connect(ctx, client); err != nil {
		return report(err)
	}

	if err = clients.Verify(ctx, client); err != nil {
		return report(err)
	}

	version, err := clients.ServerVersion(ctx, client)
	if err != nil {
		version = "unknown version"
	}

	fmt.Printf("ok: %s (%s)\n", connection.Redacted(), version)
	return 0
}

func report(err error) int {
	diagnosis := domain.Classify(err)

	code := diagnosis.Code
	if len(code) == 0 {
		code = "no error code"
	}

	fmt.Fprintf(os.Stderr, "%s (%s): %s\n", diagnosis.Category, code, diagnosis.Message)
	fmt.Fprintf(os.Stderr, "remedy: %s\n", diagnosis.Remedy)

	if diagnosis.Category == domain.CategoryAuthFailed || diagnosis.Category == domain.CategoryAccountLocked {
		return 2
	}

	return 1
}
