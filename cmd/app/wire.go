//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/sardonia/theveil/internal/bootstrap"
	"github.com/sardonia/theveil/internal/domain/reading"
	"github.com/sardonia/theveil/internal/infra/config"
	httpiface "github.com/sardonia/theveil/internal/interface/http"
	"github.com/sardonia/theveil/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideReadingConfig,
		provideControllerConfig,
		provideLoader,
		provideHistoryRepository,
		provideDashboardStore,
		httpiface.NewStatusHub,
		wire.Bind(new(reading.StatusSink), new(*httpiface.StatusHub)),
		reading.NewController,
		reading.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
