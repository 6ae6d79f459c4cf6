//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/Jacobbrewer1/kira/cmd/bot/config"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(ctx context.Context, args []string) (*App, error) {
	wire.Build(
		wire.Value(logging.Name(config.AppName)),
		logging.NewConfig,
		logging.CommonLogger,
		config.Parse,
		config.OpenStore,
		NewSession,
		providePlatform,
		provideResolver,
		provideProvisioner,
		provideTranscriptBuilder,
		provideAuditNotifier,
		provideTicketManager,
		provideVerifier,
		provideEventHandler,
		provideCommandSet,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil
}
