package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/usecase"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdDashboard() *cli.Command {
	var appCfg appConfig
	var asJSON bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the overview as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"d"},
		Usage:   "Load every collection and print the dashboard overview",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, err := appCfg.Configure(ctx, c, os.Stderr)
			if err != nil {
				return err
			}

			if err := uc.Bootstrap.Initialize(ctx); err != nil {
				return goerr.Wrap(err, "failed to initialize platform")
			}

			overview := uc.Dashboard.Overview(ctx)
			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(overview); err != nil {
					return goerr.Wrap(err, "failed to encode overview")
				}
				return nil
			}

			printOverview(ctx, w, overview)
			return nil
		},
	}
}

func printOverview(ctx context.Context, w io.Writer, o *usecase.Overview) {
	heading := color.New(color.Bold, color.FgCyan)
	line := func(format string, args ...any) {
		safe.Write(ctx, w, []byte(fmt.Sprintf(format, args...)))
	}

	s := o.Stats
	line("%s\n", heading.Sprintf("Overview (%s figures)", o.StatsSource))
	line("  Enabled frameworks     %d\n", s.EnabledFrameworks)
	line("  Unified controls       %d\n", s.TotalUnifiedControls)
	line("  Control effectiveness  %.1f%%\n", s.ControlEffectiveness)
	line("  Tests passed           %d / %d\n", s.PassedTests, s.TotalTests)
	line("  Open issues            %d / %d\n", s.OpenIssues, s.TotalIssues)
	line("  Risks                  %d (avg residual %.1f)\n", s.TotalRisks, s.AvgResidualRisk)

	if len(o.EnabledFrameworks) > 0 {
		line("\n%s\n", heading.Sprint("Frameworks"))
		for _, f := range o.EnabledFrameworks {
			line("  %-24s %d controls\n", f.Name, f.TotalControls)
		}
	}

	if len(o.OpenIssues) > 0 {
		line("\n%s\n", heading.Sprint("Open issues by severity"))
		for _, sev := range types.AllSeverities() {
			if n := o.IssuesBySeverity[sev]; n > 0 {
				line("  %-10s %d\n", sev, n)
			}
		}
	}

	if len(o.TopRisks) > 0 {
		line("\n%s\n", heading.Sprint("Top risks"))
		for _, r := range o.TopRisks {
			line("  %-32s residual %.1f\n", r.Name, r.ResidualRiskScore)
		}
	}
}
