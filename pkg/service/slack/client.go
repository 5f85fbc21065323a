package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// DefaultTitle is the header of every posted notification
const DefaultTitle = "GRC Platform"

// Notifier posts notifications to a Slack channel, either through an incoming webhook
// or through chat.postMessage with a bot token
type Notifier struct {
	api        *slack.Client
	channelID  string
	webhookURL string
	title      string
	levels     map[types.NotificationLevel]bool
	apiOptions []slack.Option
}

// Option is a functional option for Notifier configuration
type Option func(*Notifier)

// WithTitle sets the header of posted messages
func WithTitle(title string) Option {
	return func(n *Notifier) {
		n.title = title
	}
}

// WithLevels limits posting to the given levels. All levels are posted by default.
func WithLevels(levels ...types.NotificationLevel) Option {
	return func(n *Notifier) {
		n.levels = make(map[types.NotificationLevel]bool, len(levels))
		for _, l := range levels {
			n.levels[l] = true
		}
	}
}

func withAPIURL(url string) Option {
	return func(n *Notifier) {
		n.apiOptions = append(n.apiOptions, slack.OptionAPIURL(url))
	}
}

func newNotifier(opts []Option) *Notifier {
	n := &Notifier{title: DefaultTitle}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewWebhook creates a Notifier posting to an incoming webhook URL
func NewWebhook(webhookURL string, opts ...Option) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}
	n := newNotifier(opts)
	n.webhookURL = webhookURL
	return n, nil
}

// NewBot creates a Notifier posting to channelID with the provided bot token
func NewBot(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}
	n := newNotifier(opts)
	n.api = slack.New(token, n.apiOptions...)
	n.channelID = channelID
	return n, nil
}

// Notify implements interfaces.Notifier. A failed post is logged and dropped.
func (n *Notifier) Notify(ctx context.Context, msg model.Notification) {
	if err := n.Post(ctx, msg); err != nil {
		logging.From(ctx).Warn("failed to post notification to Slack", "error", err, "level", msg.Level)
	}
}

// Post sends one notification and returns the delivery error
func (n *Notifier) Post(ctx context.Context, msg model.Notification) error {
	if n.levels != nil && !n.levels[msg.Level] {
		return nil
	}

	blocks := buildBlocks(n.title, msg)
	text := fmt.Sprintf("%s %s", msg.Level.Emoji(), msg.Message)

	if n.webhookURL != "" {
		if err := slack.PostWebhookContext(ctx, n.webhookURL, &slack.WebhookMessage{
			Text:   text,
			Blocks: &slack.Blocks{BlockSet: blocks},
		}); err != nil {
			return goerr.Wrap(err, "failed to post webhook message")
		}
		return nil
	}

	if _, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	); err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channelID", n.channelID))
	}
	return nil
}

func buildBlocks(title string, msg model.Notification) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s *%s*\n%s", msg.Level.Emoji(), title, msg.Message), false, false),
			nil, nil,
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("level: `%s` | %s", msg.Level, msg.At.Format("2006-01-02 15:04:05 MST")), false, false),
		),
	}
}
