package oracle

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"go.uber.org/zap"
)

// TestConnectionRequest contains the request details for testing connectivity
// with a database service. The connection is optional; when omitted the values
// configured through the environment are used.
type TestConnectionRequest struct {
	Connection *domain.Connection `json:"connection"`
}

// TestConnectionResponse contains the response for a TestConnectionRequest
type TestConnectionResponse struct {
	Result    bool              `json:"result"`
	Version   string            `json:"version,omitempty"`
	Diagnosis *domain.Diagnosis `json:"diagnosis,omitempty"`
}

// HandleTestConnection will attempt to connect to a database service and run a
// trivial verification query
func (svc *WebhookService) HandleTestConnection(c echo.Context) error {
	var err error

	req := TestConnectionRequest{}
	if err = c.Bind(&req); err != nil {
		zap.L().Error("invalid request, failed to unmarshall json", zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("failed to unmarshall json: %s", err.Error()))
	}

	res := TestConnectionResponse{
		Result: false,
	}

	connection := svc.effectiveConnection(req.Connection)

	ctx, cancel := svc.operationContext(c.Request().Context())
	defer cancel()

	client := svc.ClientServices.NewClient(connection, connection.ServiceName)
	err = svc.ClientServices.Connect(ctx, client)
	defer func() {
		svc.ClientServices.Close(client)
	}()
	if err != nil {
		res.Diagnosis = domain.Classify(err)
		return c.JSON(http.StatusBadRequest, res)
	}

	if err = svc.ClientServices.Verify(ctx, client); err != nil {
		res.Diagnosis = domain.Classify(err)
		return c.JSON(http.StatusBadRequest, res)
	}

	version, err := svc.ClientServices.ServerVersion(ctx, client)
	if err != nil {
		zap.L().Warn("connected but failed reading the database version", zap.String("address", connection.HostnameOrAddress), zap.Int("port", connection.Port), zap.Error(err))
	}

	res.Result = true
	res.Version = version
	zap.L().Info("success connecting to the database service", zap.String("address", connection.HostnameOrAddress), zap.Int("port", connection.Port), zap.String("service", client.ServiceName), zap.String("target", connectionLabel(connection)))
	return c.JSON(http.StatusOK, res)
}

// operationContext bounds a single connect-and-query round trip with the
// configured connect timeout.
func (svc *WebhookService) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if svc.Defaults == nil || svc.Defaults.ConnectTimeout <= 0 {
		return context.WithCancel(parent)
	}

	return context.WithTimeout(parent, svc.Defaults.ConnectTimeout)
}
