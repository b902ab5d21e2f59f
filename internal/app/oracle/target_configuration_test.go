package oracle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
)

func TestGetTargetConfiguration(t *testing.T) {
	var err error

	e := echo.New()

	t.Parallel()

	t.Run("reports configured target", func(t *testing.T) {
		whService := NewWebhookService(nil, nil, testDefaults())

		recorder, ctx := setupPost(e, "/v1/gettargetconfiguration", bytes.NewReader([]byte("{}")))

		err = whService.HandleGetTargetConfiguration(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, recorder.Result().StatusCode) //nolint:bodyclose

		res := &GetTargetConfigurationResponse{}
		err = json.Unmarshal(recorder.Body.Bytes(), res)
		require.NoError(t, err)

		require.Equal(t, "localhost:1521/FREEPDB1", res.TargetConfiguration.ConnectionDescriptor)
		require.Equal(t, "appuser", res.TargetConfiguration.Username)
		require.True(t, res.TargetConfiguration.CredentialsConfigured)
		require.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("reports requested target with defaults applied", func(t *testing.T) {
		whService := NewWebhookService(nil, nil, testDefaults())

		raw, err := json.Marshal(&GetTargetConfigurationRequest{
			Connection: &domain.Connection{
				HostnameOrAddress: "dbhost.example.com",
				Username:          "scott",
			},
		})
		require.NoError(t, err)

		recorder, ctx := setupPost(e, "/v1/gettargetconfiguration", bytes.NewReader(raw))

		err = whService.HandleGetTargetConfiguration(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, recorder.Result().StatusCode) //nolint:bodyclose

		res := &GetTargetConfigurationResponse{}
		err = json.Unmarshal(recorder.Body.Bytes(), res)
		require.NoError(t, err)

		require.Equal(t, "dbhost.example.com:1521/FREEPDB1", res.TargetConfiguration.ConnectionDescriptor)
		require.Equal(t, "scott", res.TargetConfiguration.Username)
		require.False(t, res.TargetConfiguration.CredentialsConfigured)
	})

	t.Run("invalid target", func(t *testing.T) {
		whService := NewWebhookService(nil, nil, nil)

		recorder, ctx := setupPost(e, "/v1/gettargetconfiguration", bytes.NewReader([]byte("{}")))

		err = whService.HandleGetTargetConfiguration(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, recorder.Result().StatusCode) //nolint:bodyclose
	})
}
