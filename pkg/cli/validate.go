package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/cli/config"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var fileCfg config.FileFlag
	var backendCfg config.Backend
	var slackCfg config.Slack
	var checkBackend bool

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-backend",
		Usage:       "Also fetch one collection to check that the backend answers",
		Destination: &checkBackend,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration and optionally check backend connectivity",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			f, err := fileCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			backendCfg.ApplyFile(c, f)
			slackCfg.ApplyFile(c, f)

			client, err := backendCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "backend configuration is invalid")
			}
			if _, err := slackCfg.Configure(); err != nil {
				return goerr.Wrap(err, "Slack configuration is invalid")
			}

			logger.Info("Configuration validation passed",
				"backend", backendCfg,
				"slack", slackCfg,
			)

			if !checkBackend {
				return nil
			}

			collections := client.Variant().Collections()
			if len(collections) == 0 {
				return nil
			}
			var snap model.Snapshot
			if err := client.FetchCollection(ctx, collections[0], &snap); err != nil {
				return goerr.Wrap(err, "backend check failed", goerr.V("base_url", client.BaseURL()))
			}

			logger.Info("Backend check passed",
				"base_url", client.BaseURL(),
				"collection", collections[0],
				"count", snap.Count(collections[0]),
			)
			return nil
		},
	}
}
