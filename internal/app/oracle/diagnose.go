package oracle

import (
	"github.com/labstack/echo/v4"
)

// HandleDiagnose will run the staged connectivity diagnosis against a database service
func (svc *WebhookService) HandleDiagnose(c echo.Context) error {
	return svc.Diagnostics.Diagnose(c)
}
