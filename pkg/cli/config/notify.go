package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Notify selects where user-visible notifications go besides the log
type Notify struct {
	Slack Slack

	console      bool
	noColor      bool
	recorderSize int
}

func (x *Notify) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "console",
			Usage:       "Print notifications to stderr",
			Category:    "Notification",
			Value:       true,
			Destination: &x.console,
			Sources:     cli.EnvVars("GRCBOARD_CONSOLE"),
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored console notifications",
			Category:    "Notification",
			Destination: &x.noColor,
			Sources:     cli.EnvVars("GRCBOARD_NO_COLOR", "NO_COLOR"),
		},
		&cli.IntFlag{
			Name:        "notification-history",
			Usage:       "Number of notifications kept for GET /api/notifications",
			Category:    "Notification",
			Value:       notify.DefaultRecorderSize,
			Destination: &x.recorderSize,
			Sources:     cli.EnvVars("GRCBOARD_NOTIFICATION_HISTORY"),
		},
	}
	return append(flags, x.Slack.Flags()...)
}

func (x Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("console", x.console),
		slog.Int("history", x.recorderSize),
		slog.Any("slack", x.Slack),
	)
}

// ApplyFile fills settings not given on the command line from the configuration file
func (x *Notify) ApplyFile(c *cli.Command, f *File) {
	x.Slack.ApplyFile(c, f)
}

// Configure builds the notifier fan-out. The returned Recorder is part of it and keeps
// the most recent notifications.
func (x *Notify) Configure(stderr io.Writer) (interfaces.Notifier, *notify.Recorder, error) {
	if stderr == nil {
		stderr = os.Stderr
	}

	recorder := notify.NewRecorder(x.recorderSize)
	sinks := []interfaces.Notifier{notify.Logger{}, recorder}

	if x.console {
		var opts []notify.ConsoleOption
		if x.noColor {
			opts = append(opts, notify.WithoutColor())
		}
		sinks = append(sinks, notify.NewConsole(stderr, opts...))
	}

	slackNotifier, err := x.Slack.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure Slack notifications")
	}
	if slackNotifier != nil {
		sinks = append(sinks, slackNotifier)
	}

	return notify.Multi(sinks...), recorder, nil
}
