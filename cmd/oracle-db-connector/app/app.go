package app

import (
	"github.com/opsbridge/oracle-db-connector/internal/app/diagnose"
	"github.com/opsbridge/oracle-db-connector/internal/app/oracle"
	"github.com/opsbridge/oracle-db-connector/internal/config"
	"github.com/opsbridge/oracle-db-connector/internal/handler/web"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New() *fx.App {
	var logger *zap.Logger

	app := fx.New(
		fx.Provide(
			configureLogger,
			config.Load,
			web.ConfigureHTTPServers,
			fx.Annotate(oracle.NewOracleClients, fx.As(new(oracle.ClientServices))),
			fx.Annotate(diagnose.NewDiagnosticsService, fx.As(new(oracle.DiagnosticsService))),
			fx.Annotate(oracle.NewWebhookService, fx.As(new(web.WebhookService))),
		),
		fx.Invoke(
			web.RegisterHandlers,
		),
		fx.Populate(&logger),
	)

	logger.Info("Oracle DB connector starting")

	return app
}

func configureLogger() (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	loggerConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	loggerConfig.EncoderConfig.TimeKey = "time"
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfig.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(zap.L())
	return zap.L(), nil
}
