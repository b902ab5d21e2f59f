package oracle

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"go.uber.org/zap"
)

// GetTargetConfigurationRequest represents a request for the resolved target
// configuration. The connection is optional; when omitted the values
// configured through the environment are reported.
type GetTargetConfigurationRequest struct {
	Connection *domain.Connection `json:"connection"`
}

// TargetConfiguration describes the effective target of the connector: the
// resolved connection descriptor and the credential state, never the password.
type TargetConfiguration struct {
	ConnectionDescriptor  string `json:"connectionDescriptor"`
	Username              string `json:"username,omitempty"`
	CredentialsConfigured bool   `json:"credentialsConfigured"`
	Label                 string `json:"label,omitempty"`
}

// GetTargetConfigurationResponse represents the resolved target configuration
type GetTargetConfigurationResponse struct {
	TargetConfiguration TargetConfiguration `json:"targetConfiguration"`
}

// HandleGetTargetConfiguration reports the connect string and credential state
// the connector would use, so an operator can confirm which target is in effect.
func (svc *WebhookService) HandleGetTargetConfiguration(c echo.Context) error {
	req := GetTargetConfigurationRequest{}
	if err := c.Bind(&req); err != nil {
		zap.L().Error("invalid request, failed to unmarshall json", zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("failed to unmarshall json: %s", err.Error()))
	}

	connection := svc.effectiveConnection(req.Connection)

	descriptor := connection.Descriptor()
	if descriptor.Port == 0 {
		descriptor.Port = domain.DefaultPort
	}
	if len(descriptor.ServiceName) == 0 {
		descriptor.ServiceName = domain.DefaultServiceName
	}

	if err := descriptor.Validate(); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	res := GetTargetConfigurationResponse{
		TargetConfiguration: TargetConfiguration{
			ConnectionDescriptor:  descriptor.String(),
			Username:              connection.Username,
			CredentialsConfigured: len(connection.Username) > 0 && len(connection.Password) > 0,
			Label:                 connectionLabel(connection),
		},
	}

	return c.JSON(http.StatusOK, res)
}
