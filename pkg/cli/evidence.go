package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/cli/config"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdEvidence() *cli.Command {
	return &cli.Command{
		Name:  "evidence",
		Usage: "Manage control evidence",
		Commands: []*cli.Command{
			cmdEvidenceUpload(),
		},
	}
}

func cmdEvidenceUpload() *cli.Command {
	var appCfg appConfig
	var storageCfg config.Storage
	var controlID string
	var description string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "control",
			Usage:       "ID of the unified control the evidence belongs to",
			Required:    true,
			Destination: &controlID,
		},
		&cli.StringFlag{
			Name:        "description",
			Usage:       "Description of the evidence",
			Destination: &description,
		},
	}
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a local file or a gs://bucket/object as manual evidence",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			src := c.Args().First()
			if src == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "evidence file is required")
			}

			loader := storageCfg.Configure()
			defer safe.Close(ctx, loader)

			file, err := loader.Load(ctx, src)
			if err != nil {
				return goerr.Wrap(err, "failed to load evidence file", goerr.V("source", src))
			}

			uc, _, err := appCfg.Configure(ctx, c, os.Stderr)
			if err != nil {
				return err
			}

			return uc.Evidence.Upload(ctx, model.EvidenceUpload{
				UnifiedControlID: controlID,
				Description:      description,
				FileName:         file.Name,
				Content:          file.Content,
			})
		},
	}
}
