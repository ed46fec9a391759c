package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/routes-report/internal/bootstrap"
	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

type reportService interface {
	Report(ctx context.Context, req report.Request) (*report.Report, error)
	Clients() []report.ClientInfo
	Policy() report.SummaryPolicy
}

// serviceFactory opens the report service. The returned func releases it.
type serviceFactory func(ctx context.Context, observer claims.PageObserver) (reportService, func() error, error)

func defaultServiceFactory(ctx context.Context, observer claims.PageObserver) (reportService, func() error, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "reportctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Output:      os.Stderr,
	})
	rt, err := bootstrap.New(ctx, bootstrap.Params{
		Config:       cfg,
		Logger:       logg,
		PageObserver: observer,
	})
	if err != nil {
		return nil, nil, err
	}
	return rt.Service, rt.Close, nil
}

func newRootCommand(open serviceFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Build same-day route reports from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBuildCommand(open),
		newClientsCommand(open),
	)
	return root
}
