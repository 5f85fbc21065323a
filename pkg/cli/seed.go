package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var appCfg appConfig

	return &cli.Command{
		Name:  "seed",
		Usage: "Seed the backend with sample data, load every collection and print their sizes",
		Flags: appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, err := appCfg.Configure(ctx, c, os.Stderr)
			if err != nil {
				return err
			}

			if err := uc.Bootstrap.Initialize(ctx); err != nil {
				return goerr.Wrap(err, "failed to initialize platform")
			}

			snap := uc.App().Snapshot()
			w := c.Root().Writer
			bold := color.New(color.Bold)
			safe.Write(ctx, w, []byte(bold.Sprintf("%s (%s)\n", uc.App().APIBaseURL(), uc.Variant())))
			for _, col := range uc.Variant().Collections() {
				safe.Write(ctx, w, []byte(fmt.Sprintf("  %-18s %d\n", col, snap.Count(col))))
			}
			return nil
		},
	}
}
