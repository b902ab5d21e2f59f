package diagnose

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
	"github.com/opsbridge/oracle-db-connector/internal/app/oracle/mocks"
	"github.com/opsbridge/oracle-db-connector/internal/config"
)

func TestDiagnose(t *testing.T) {
	var err error

	e := echo.New()

	t.Parallel()

	newClient := func(connection *domain.Connection, serviceName string) *domain.Client {
		if len(serviceName) == 0 {
			serviceName = connection.ServiceName
		}
		return &domain.Client{
			Connection:  connection,
			ServiceName: serviceName,
		}
	}

	t.Run("healthy target passes every stage", func(t *testing.T) {
		listener, port := listen(t)
		defer func() {
			_ = listener.Close()
		}()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClientServices := mocks.NewMockClientServices(ctrl)

		svc := NewDiagnosticsService(mockClientServices, defaultsFor(port))
		require.NotNil(t, svc)

		mockClientServices.EXPECT().NewClient(gomock.Any(), gomock.Any()).DoAndReturn(newClient)
		mockClientServices.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil)
		mockClientServices.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
		mockClientServices.EXPECT().Close(gomock.Any())

		recorder, ctx := setupPost(e, "/v1/diagnose", bytes.NewReader([]byte("{}")))

		err = svc.Diagnose(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, recorder.Result().StatusCode) //nolint:bodyclose

		res := &DiagnoseResponse{}
		err = json.Unmarshal(recorder.Body.Bytes(), res)
		require.NoError(t, err)

		require.NotEmpty(t, res.RunID)
		require.True(t, res.Healthy)
		require.Len(t, res.Results, 4)
		for _, result := range res.Results {
			require.True(t, result.Passed, result.Stage)
			require.False(t, result.Skipped, result.Stage)
			require.Nil(t, result.Diagnosis, result.Stage)
		}
	})

	t.Run("authentication failure skips the query stage", func(t *testing.T) {
		listener, port := listen(t)
		defer func() {
			_ = listener.Close()
		}()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClientServices := mocks.NewMockClientServices(ctrl)

		svc := NewDiagnosticsService(mockClientServices, defaultsFor(port))

		mockClientServices.EXPECT().NewClient(gomock.Any(), gomock.Any()).DoAndReturn(newClient)
		mockClientServices.EXPECT().
			Connect(gomock.Any(), gomock.Any()).
			Return(errors.New("failed to connect: ORA-01017: invalid username/password; logon denied"))
		mockClientServices.EXPECT().Close(gomock.Any())

		recorder, ctx := setupPost(e, "/v1/diagnose", bytes.NewReader([]byte("{}")))

		err = svc.Diagnose(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, recorder.Result().StatusCode) //nolint:bodyclose

		res := &DiagnoseResponse{}
		err = json.Unmarshal(recorder.Body.Bytes(), res)
		require.NoError(t, err)

		require.False(t, res.Healthy)
		require.Len(t, res.Results, 4)

		require.True(t, res.Results[0].Passed)
		require.True(t, res.Results[1].Passed)

		authenticate := res.Results[2]
		require.Equal(t, StageAuthenticate, authenticate.Stage)
		require.False(t, authenticate.Passed)
		require.NotNil(t, authenticate.Diagnosis)
		require.Equal(t, domain.CategoryAuthFailed, authenticate.Diagnosis.Category)

		require.True(t, res.Results[3].Skipped)
	})

	t.Run("closed listener port is classified as listener down", func(t *testing.T) {
		listener, port := listen(t)
		require.NoError(t, listener.Close())

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClientServices := mocks.NewMockClientServices(ctrl)

		svc := NewDiagnosticsService(mockClientServices, defaultsFor(port))

		mockClientServices.EXPECT().NewClient(gomock.Any(), gomock.Any()).DoAndReturn(newClient)
		mockClientServices.EXPECT().Close(gomock.Any())

		recorder, ctx := setupPost(e, "/v1/diagnose", bytes.NewReader([]byte("{}")))

		err = svc.Diagnose(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, recorder.Result().StatusCode) //nolint:bodyclose

		res := &DiagnoseResponse{}
		err = json.Unmarshal(recorder.Body.Bytes(), res)
		require.NoError(t, err)

		require.False(t, res.Healthy)

		reach := res.Results[1]
		require.Equal(t, StageReach, reach.Stage)
		require.False(t, reach.Passed)
		require.NotNil(t, reach.Diagnosis)
		require.Equal(t, domain.CategoryListenerDown, reach.Diagnosis.Category)

		require.True(t, res.Results[2].Skipped)
		require.True(t, res.Results[3].Skipped)
	})

	t.Run("no connection and no defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := NewDiagnosticsService(mocks.NewMockClientServices(ctrl), nil)

		recorder, ctx := setupPost(e, "/v1/diagnose", bytes.NewReader([]byte("{}")))

		err = svc.Diagnose(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, recorder.Result().StatusCode) //nolint:bodyclose
	})
}

func listen(t *testing.T) (net.Listener, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return listener, listener.Addr().(*net.TCPAddr).Port
}

func defaultsFor(port int) *config.Config {
	return &config.Config{
		Connection: domain.Connection{
			HostnameOrAddress: "127.0.0.1",
			Port:              port,
			ServiceName:       "FREEPDB1",
			Username:          "appuser",
			Password:          "password",
		},
		ConnectTimeout: 5 * time.Second,
	}
}

func setupPost(e *echo.Echo, path string, body io.Reader) (*httptest.ResponseRecorder, echo.Context) {
	request := httptest.NewRequest(http.MethodPost, path, body)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	return recorder, e.NewContext(request, recorder)
}
