package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/cli/config"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
	"github.com/secmon-lab/grcboard/pkg/usecase"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// appConfig is the configuration shared by every command talking to a backend
type appConfig struct {
	file    config.FileFlag
	backend config.Backend
	gemini  config.Gemini
	notify  config.Notify
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.file.Flags()...)
	flags = append(flags, x.backend.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.notify.Flags()...)
	return flags
}

func (x appConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("backend", x.backend),
		slog.Any("notify", x.notify),
		slog.Attr{Key: "gemini", Value: slog.GroupValue(x.gemini.LogAttrs()...)},
	)
}

// Configure builds the use cases. The Recorder keeps the notifications raised through them.
func (x *appConfig) Configure(ctx context.Context, c *cli.Command, stderr io.Writer) (*usecase.UseCases, *notify.Recorder, error) {
	f, err := x.file.Load()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load configuration file")
	}
	x.backend.ApplyFile(c, f)
	x.notify.ApplyFile(c, f)

	client, err := x.backend.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure backend")
	}

	notifier, recorder, err := x.notify.Configure(stderr)
	if err != nil {
		return nil, nil, err
	}

	opts := []usecase.Option{
		usecase.WithNotifier(notifier),
		usecase.WithIndustry(x.backend.Industry()),
	}

	a, err := x.gemini.Analyzer(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure Gemini analyzer")
	}
	if a != nil {
		opts = append(opts, usecase.WithAnalyzer(a), usecase.WithRiskSuggester(a))
		logging.From(ctx).Info("Gemini analyzer enabled")
	}

	logging.From(ctx).Info("Backend configured", "config", x)
	return usecase.New(client, opts...), recorder, nil
}
