package oracle

import (
	"github.com/labstack/echo/v4"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"github.com/opsbridge/oracle-db-connector/internal/config"
)

// DiagnosticsService interfaces for staged connectivity diagnosis functions
type DiagnosticsService interface {
	Diagnose(c echo.Context) error
}

// WebhookService implements the connector webhook operations
type WebhookService struct {
	ClientServices ClientServices
	Diagnostics    DiagnosticsService
	Defaults       *config.Config
}

// NewWebhookService will return a new WebhookService
func NewWebhookService(clientServices ClientServices, diagnostics DiagnosticsService, defaults *config.Config) *WebhookService {
	return &WebhookService{
		ClientServices: clientServices,
		Diagnostics:    diagnostics,
		Defaults:       defaults,
	}
}

// effectiveConnection returns the request connection when one was supplied,
// otherwise a copy of the connection configured through the environment.
func (svc *WebhookService) effectiveConnection(requested *domain.Connection) *domain.Connection {
	if requested != nil {
		return requested
	}

	if svc.Defaults == nil {
		return &domain.Connection{}
	}

	configured := svc.Defaults.Connection
	return &configured
}
