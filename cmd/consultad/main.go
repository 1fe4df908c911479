package main

import (
	"context"
	"log/slog"
	"pjeconsulta-backend/lib/configutil"
	"pjeconsulta-backend/lib/restyutil"
	"pjeconsulta-backend/lib/scrapers/pje"
	"pjeconsulta-backend/lib/serviceutil"
	"pjeconsulta-backend/lib/telemetry"
	"pjeconsulta-backend/services/consulta"
	"time"
)

type Config struct {
	Port           int    `json:"port"`
	Verbose        bool   `json:"verbose"`
	PortalBaseUrl  string `json:"portal_baseurl"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxAttempts    int    `json:"max_attempts"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to load configuration", err)
	}
	if config.Port == 0 {
		config.Port = 8000
	}

	telemetry.InitSlog(config.Verbose)
	err = telemetry.SetupFromEnv(ctx, "consultad")
	if err != nil {
		slog.Warn("telemetry exporters disabled", "err", err)
	} else {
		go func() {
			<-ctx.Done()
			telemetry.Shutdown(context.Background())
		}()
		telemetry.InstrumentPerfStats(ctx)
	}

	if config.Verbose {
		pje.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(".dev/resty/pje"),
		)
	}

	service := consulta.NewService(consulta.Options{
		PortalBaseUrl: config.PortalBaseUrl,
		Timeout:       time.Duration(config.TimeoutSeconds) * time.Second,
		MaxAttempts:   config.MaxAttempts,
	})
	go serviceutil.StartHttpServer(config.Port, service.Router())

	<-ctx.Done()
}
