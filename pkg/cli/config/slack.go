package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack configures posting user-visible notifications to a Slack channel.
// A webhook URL takes precedence over a bot token.
type Slack struct {
	webhookURL string
	botToken   string
	channelID  string
	title      string
	levels     []string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for notifications",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("GRCBOARD_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token, used with --slack-channel",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("GRCBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID notifications are posted to",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("GRCBOARD_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-title",
			Usage:       "Header of posted notifications",
			Category:    "Slack",
			Value:       slack.DefaultTitle,
			Destination: &x.title,
			Sources:     cli.EnvVars("GRCBOARD_SLACK_TITLE"),
		},
		&cli.StringSliceFlag{
			Name:        "slack-levels",
			Usage:       "Notification levels posted to Slack (success, info, error). All by default",
			Category:    "Slack",
			Destination: &x.levels,
			Sources:     cli.EnvVars("GRCBOARD_SLACK_LEVELS"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(x.webhookURL)),
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
		slog.Any("levels", x.levels),
	)
}

// ApplyFile fills settings not given on the command line from the configuration file
func (x *Slack) ApplyFile(c *cli.Command, f *File) {
	fileDefault(c, "slack-webhook-url", &x.webhookURL, f.Slack.WebhookURL)
	fileDefault(c, "slack-channel", &x.channelID, f.Slack.Channel)
	fileDefault(c, "slack-title", &x.title, f.Slack.Title)
	if len(f.Slack.Levels) > 0 && !c.IsSet("slack-levels") {
		x.levels = f.Slack.Levels
	}
}

// IsConfigured reports whether a Slack destination is set
func (x *Slack) IsConfigured() bool {
	return x.webhookURL != "" || x.botToken != ""
}

// Configure creates the Slack notifier. It returns nil when Slack is not configured.
func (x *Slack) Configure() (*slack.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	opts := []slack.Option{}
	if x.title != "" {
		opts = append(opts, slack.WithTitle(x.title))
	}
	if len(x.levels) > 0 {
		levels := make([]types.NotificationLevel, 0, len(x.levels))
		for _, s := range x.levels {
			l, err := types.ParseNotificationLevel(s)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidConfig, "invalid Slack notification level",
					goerr.V(FlagKey, "slack-levels"), goerr.V("level", s))
			}
			levels = append(levels, l)
		}
		opts = append(opts, slack.WithLevels(levels...))
	}

	if x.webhookURL != "" {
		return slack.NewWebhook(x.webhookURL, opts...)
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--slack-bot-token requires --slack-channel", goerr.V(FlagKey, "slack-channel"))
	}
	return slack.NewBot(x.botToken, x.channelID, opts...)
}
