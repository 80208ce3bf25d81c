package main

import (
	"context"
	"os"

	"pca/config"
	"pca/dep"
	"pca/handler"
	"pca/pkg/logutil"
	"pca/repo"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var opt = config.NewOptions()

var rootCmd = &cobra.Command{
	Use:           "pca",
	Short:         "Manage phishing campaign assessments on a GoPhish server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// an invalid log level must fail before any network activity
		level, err := logutil.ParseLevel(opt.LogLevel)
		if err != nil {
			return err
		}

		ctx := logutil.InitZeroLog(cmd.Context(), level)
		ctx = log.Ctx(ctx).With().Str("run_id", uuid.New().String()).Logger().WithContext(ctx)
		cmd.SetContext(ctx)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opt.LogLevel, "log-level", "l", config.LogLevelInfo,
		"log level: debug, info, warning, error or critical")
	rootCmd.PersistentFlags().StringVar(&opt.ConfigPath, "config", "", "path to an optional JSON config file")
}

// app wires the per-command collaborators: the API client, the local
// document store and the handlers over them.
type app struct {
	cfg *config.Config

	client         dep.GophishClient
	assessmentRepo repo.AssessmentRepo

	importHandler   handler.ImportHandler
	exportHandler   handler.ExportHandler
	cleanHandler    handler.CleanHandler
	completeHandler handler.CompleteHandler
	testHandler     handler.TestHandler
}

func newApp(ctx context.Context, server, apiKey string) (*app, error) {
	cfg := config.NewConfig()
	if err := cfg.Load(ctx, opt.ConfigPath); err != nil {
		log.Ctx(ctx).Error().Msgf("load config failed, err: %v", err)
		return nil, err
	}
	cfg.Gophish.URL = server
	cfg.Gophish.APIKey = apiKey

	client, err := dep.NewGophishClient(ctx, cfg.Gophish)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("init gophish client failed, err: %v", err)
		return nil, err
	}

	// fail fast on connectivity or auth problems
	if err := client.Ping(ctx); err != nil {
		log.Ctx(ctx).Error().Msgf("gophish server unreachable, url: %s, err: %v", server, err)
		return nil, err
	}
	log.Ctx(ctx).Debug().Msgf("connected to %s", server)

	assessmentRepo := repo.NewAssessmentRepo(ctx, cfg.Artifacts)

	return &app{
		cfg:             cfg,
		client:          client,
		assessmentRepo:  assessmentRepo,
		importHandler:   handler.NewImportHandler(client, cfg.Gophish),
		exportHandler:   handler.NewExportHandler(client, assessmentRepo),
		cleanHandler:    handler.NewCleanHandler(client),
		completeHandler: handler.NewCompleteHandler(client),
		testHandler:     handler.NewTestHandler(client),
	}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.client.Close(ctx); err != nil {
		log.Ctx(ctx).Error().Msgf("close gophish client failed, err: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Msg(err.Error())
		os.Exit(1)
	}
}
