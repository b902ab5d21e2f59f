// Package diagnose runs the connectivity runbook as ordered stages and
// classifies what failed.
package diagnose

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"github.com/opsbridge/oracle-db-connector/internal/app/oracle"
	"github.com/opsbridge/oracle-db-connector/internal/config"
)

// DiagnosticsService represents the staged connectivity diagnosis
type DiagnosticsService struct {
	ClientServices oracle.ClientServices
	Defaults       *config.Config

	resolver *net.Resolver
	dialer   *net.Dialer
}

// NewDiagnosticsService will return a new DiagnosticsService
func NewDiagnosticsService(clientServices oracle.ClientServices, defaults *config.Config) *DiagnosticsService {
	return &DiagnosticsService{
		ClientServices: clientServices,
		Defaults:       defaults,
		resolver:       net.DefaultResolver,
		dialer:         &net.Dialer{},
	}
}

// Diagnose will run the checklist stages in order against the requested
// connection, stopping at the first failure. The response always carries the
// per-stage outcomes; an unhealthy target is a result, not a request error.
func (svc *DiagnosticsService) Diagnose(c echo.Context) error {
	var err error

	req := DiagnoseRequest{}
	if err = c.Bind(&req); err != nil {
		zap.L().Error("invalid request, failed to unmarshall json", zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("failed to unmarshall request json: %s", err.Error()))
	}

	connection := req.Connection
	if connection == nil {
		if svc.Defaults == nil {
			return c.String(http.StatusBadRequest, "no connection supplied and no configured default")
		}

		configured := svc.Defaults.Connection
		connection = &configured
	}

	client := svc.ClientServices.NewClient(connection, connection.ServiceName)

	if err = client.Connection.Descriptor().Validate(); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := svc.runContext(c.Request().Context())
	defer cancel()

	runID := uuid.New().String()
	zap.L().Info("starting connectivity diagnosis", zap.String("runId", runID), zap.String("address", connection.HostnameOrAddress), zap.Int("port", connection.Port), zap.String("service", client.ServiceName))

	results := svc.runDiagnosis(ctx, connection, client)
	svc.ClientServices.Close(client)

	res := &DiagnoseResponse{
		RunID:   runID,
		Target:  connection.Redacted(),
		Healthy: results.healthy(),
		Results: results.collapse(),
	}

	zap.L().Info("connectivity diagnosis finished", zap.String("runId", runID), zap.Bool("healthy", res.Healthy), zap.Int("completed", results.Completed))

	return c.JSON(http.StatusOK, res)
}

func (svc *DiagnosticsService) runDiagnosis(ctx context.Context, connection *domain.Connection, client *domain.Client) *runResults {
	results := newRunResults()

	failed := false
	for _, p := range svc.probesFor(connection, client) {
		if failed {
			results.append(&StageResult{
				Stage:   p.stage,
				Skipped: true,
			})
			continue
		}

		started := time.Now()
		err := p.run(ctx)
		result := &StageResult{
			Stage:          p.stage,
			Passed:         err == nil,
			DurationMillis: time.Since(started).Milliseconds(),
		}

		if err != nil {
			result.Diagnosis = domain.Classify(err)
			zap.L().Info("diagnosis stage failed", zap.String("stage", p.stage), zap.String("category", string(result.Diagnosis.Category)), zap.Error(err))
			failed = true
		}

		results.append(result)
	}

	return results
}

func (svc *DiagnosticsService) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if svc.Defaults == nil || svc.Defaults.ConnectTimeout <= 0 {
		return context.WithCancel(parent)
	}

	return context.WithTimeout(parent, svc.Defaults.ConnectTimeout)
}
