package oracle

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"go.uber.org/zap"
)

const (
	// DefaultDeveloperRole is the development role granted to new accounts on 23ai
	DefaultDeveloperRole = "DB_DEVELOPER_ROLE"

	// oraUserExists is raised when creating an account whose name is taken
	oraUserExists = "ORA-01920"
)

// UserSpec describes the account to provision on the target service
type UserSpec struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Grants   []string `json:"grants,omitempty"`
}

// ProvisionUserRequest contains the request details for provisioning a
// development account. The connection must authenticate as an administrator.
type ProvisionUserRequest struct {
	Connection *domain.Connection `json:"connection"`
	User       UserSpec           `json:"user"`
}

// ProvisionUserResponse contains the response for a ProvisionUserRequest
type ProvisionUserResponse struct {
	Username string   `json:"username"`
	Grants   []string `json:"grants"`
	Existed  bool     `json:"existed"`
}

// HandleProvisionUser will create a development account on the target service
// and apply the requested grants. An account that already exists is left in
// place and still receives the grants.
func (svc *WebhookService) HandleProvisionUser(c echo.Context) error {
	req := ProvisionUserRequest{}
	if err := c.Bind(&req); err != nil {
		zap.L().Error("invalid request, failed to unmarshall json", zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("failed to unmarshall json: %s", err.Error()))
	}

	if err := validateUserSpec(&req.User); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	if len(req.User.Grants) == 0 {
		req.User.Grants = []string{DefaultDeveloperRole}
	}

	connection := svc.effectiveConnection(req.Connection)

	ctx, cancel := svc.operationContext(c.Request().Context())
	defer cancel()

	client := svc.ClientServices.NewClient(connection, connection.ServiceName)
	err := svc.ClientServices.Connect(ctx, client)
	defer func() {
		svc.ClientServices.Close(client)
	}()
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	zap.L().Info("provisioning account on the database service", zap.String("address", connection.HostnameOrAddress), zap.Int("port", connection.Port), zap.String("account", req.User.Username))

	res := ProvisionUserResponse{
		Username: req.User.Username,
		Grants:   req.User.Grants,
	}

	statement := fmt.Sprintf(`CREATE USER %s IDENTIFIED BY "%s"`, req.User.Username, req.User.Password)
	err = svc.ClientServices.Exec(ctx, client, statement)
	if err != nil {
		if !strings.Contains(err.Error(), oraUserExists) {
			return c.String(http.StatusBadRequest, fmt.Sprintf("failed to create account %s: %s", req.User.Username, err.Error()))
		}

		zap.L().Info("account already exists, applying grants only", zap.String("account", req.User.Username))
		res.Existed = true
	}

	for _, grant := range req.User.Grants {
		statement = fmt.Sprintf("GRANT %s TO %s", grant, req.User.Username)
		if err = svc.ClientServices.Exec(ctx, client, statement); err != nil {
			return c.String(http.StatusBadRequest, fmt.Sprintf("failed to grant %s to %s: %s", grant, req.User.Username, err.Error()))
		}
	}

	zap.L().Info("account provisioned on the database service", zap.String("address", connection.HostnameOrAddress), zap.Int("port", connection.Port), zap.String("account", req.User.Username))

	return c.JSON(http.StatusOK, &res)
}

// validateUserSpec guards the generated statements: identifiers must be plain
// Oracle identifiers and the password must be quotable.
func validateUserSpec(user *UserSpec) error {
	if !validIdentifier(user.Username) {
		return fmt.Errorf(`invalid account name "%s"`, user.Username)
	}

	if len(user.Password) == 0 {
		return fmt.Errorf("account %s has no password", user.Username)
	}

	if strings.ContainsAny(user.Password, `"`) {
		return fmt.Errorf("account %s password must not contain double quotes", user.Username)
	}

	for _, grant := range user.Grants {
		if !validIdentifier(grant) {
			return fmt.Errorf(`invalid grant "%s" for account %s`, grant, user.Username)
		}
	}

	return nil
}
