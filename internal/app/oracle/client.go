// Package oracle contains logic specific for working with Oracle Database services
package oracle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	go_ora "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
)

//go:generate go run github.com/golang/mock/mockgen -source ./client.go -destination=./mocks/mock_client.go -package=mocks

// ClientServices interfaces for interacting with an Oracle Database service
type ClientServices interface {
	// Close will release the database session
	Close(client *domain.Client)
	// Connect will open a database session and confirm the listener accepts it
	Connect(ctx context.Context, client *domain.Client) error
	// Exec will run a single statement that returns no rows
	Exec(ctx context.Context, client *domain.Client, statement string) error
	// NewClient will create a new client instance
	NewClient(connection *domain.Connection, serviceName string) *domain.Client
	// ServerVersion will return the database version banner
	ServerVersion(ctx context.Context, client *domain.Client) (string, error)
	// Verify will run a trivial query and confirm it returns a single row
	Verify(ctx context.Context, client *domain.Client) error
}

// OracleClientsImpl implementation of ClientServices
type OracleClientsImpl struct {
}

// NewOracleClients will return a new Oracle client service
func NewOracleClients() *OracleClientsImpl {
	return &OracleClientsImpl{}
}

// Close will release the database session
func (c *OracleClientsImpl) Close(client *domain.Client) {
	if client == nil || client.Session == nil {
		return
	}

	unwrapped, ok := client.Session.(*sql.DB)
	if !ok {
		return
	}

	_ = unwrapped.Close()
	client.Session = nil
}

// Connect will open a database session against the listener and verify it with
// a round trip. A single underlying connection is used; there is no pool.
func (c *OracleClientsImpl) Connect(ctx context.Context, client *domain.Client) error {
	zap.L().Info("attempting to connect to the database service", zap.String("address", client.Connection.HostnameOrAddress), zap.Int("port", client.Connection.Port), zap.String("service", client.ServiceName))

	url := go_ora.BuildUrl(client.Connection.HostnameOrAddress, client.Connection.Port, client.ServiceName, client.Connection.Username, client.Connection.Password, nil)

	db, err := sql.Open("oracle", url)
	if err != nil {
		zap.L().Error("failed to open a database handle", zap.String("address", client.Connection.HostnameOrAddress), zap.Int("port", client.Connection.Port), zap.Error(err))
		return fmt.Errorf("failed to open a database handle: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		zap.L().Error("failed to connect to the database service", zap.String("address", client.Connection.HostnameOrAddress), zap.Int("port", client.Connection.Port), zap.String("service", client.ServiceName), zap.Error(err))
		return fmt.Errorf("failed to connect: %w", err)
	}

	client.Session = db
	return nil
}

// Exec will run a single statement that returns no rows
func (c *OracleClientsImpl) Exec(ctx context.Context, client *domain.Client, statement string) error {
	unwrapped, ok := client.Session.(*sql.DB)
	if !ok {
		return errors.New("invalid session")
	}

	_, err := unwrapped.ExecContext(ctx, statement)
	return err
}

// NewClient will create a new client instance
func (c *OracleClientsImpl) NewClient(connection *domain.Connection, serviceName string) *domain.Client {
	if connection.Port == 0 {
		connection.Port = domain.DefaultPort
	}

	if len(serviceName) == 0 {
		serviceName = connection.ServiceName
	}

	if len(serviceName) == 0 {
		serviceName = domain.DefaultServiceName
	}

	return &domain.Client{
		Connection:  connection,
		Session:     nil,
		ServiceName: serviceName,
	}
}

// ServerVersion will return the database version banner
func (c *OracleClientsImpl) ServerVersion(ctx context.Context, client *domain.Client) (string, error) {
	unwrapped, ok := client.Session.(*sql.DB)
	if !ok {
		return "", errors.New("invalid session")
	}

	var banner string
	err := unwrapped.QueryRowContext(ctx, "SELECT banner FROM v$version WHERE ROWNUM = 1").Scan(&banner)
	if err != nil {
		return "", fmt.Errorf("failed reading the database version: %w", err)
	}

	if len(banner) == 0 {
		return "", errors.New("empty response data")
	}

	return banner, nil
}

// Verify will run a trivial query and confirm it returns a single row
func (c *OracleClientsImpl) Verify(ctx context.Context, client *domain.Client) error {
	unwrapped, ok := client.Session.(*sql.DB)
	if !ok {
		return errors.New("invalid session")
	}

	var value int
	err := unwrapped.QueryRowContext(ctx, "SELECT 1 FROM DUAL").Scan(&value)
	if err != nil {
		return fmt.Errorf("verification query failed: %w", err)
	}

	if value != 1 {
		return fmt.Errorf("verification query returned %d, expected 1", value)
	}

	return nil
}
