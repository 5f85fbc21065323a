package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/grcapi"
	"github.com/urfave/cli/v3"
)

// Backend holds the connection settings of the GRC backend API
type Backend struct {
	url      string
	variant  string
	token    string
	timeout  time.Duration
	industry string
	debug    bool
}

func (x *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of the GRC backend. /api is appended",
			Category:    "Backend",
			Sources:     cli.EnvVars("GRCBOARD_BACKEND_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "variant",
			Usage:       "Backend API flavour (enterprise, intelligence)",
			Category:    "Backend",
			Value:       types.VariantEnterprise.String(),
			Sources:     cli.EnvVars("GRCBOARD_VARIANT"),
			Destination: &x.variant,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token sent to the backend",
			Category:    "Backend",
			Sources:     cli.EnvVars("GRCBOARD_API_TOKEN"),
			Destination: &x.token,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Per-request timeout of backend calls (0 waits indefinitely)",
			Category:    "Backend",
			Sources:     cli.EnvVars("GRCBOARD_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.StringFlag{
			Name:        "industry",
			Usage:       "Industry used for AI risk suggestions when none is given",
			Category:    "Backend",
			Sources:     cli.EnvVars("GRCBOARD_INDUSTRY"),
			Destination: &x.industry,
		},
		&cli.BoolFlag{
			Name:        "backend-debug",
			Usage:       "Log every backend request and response",
			Category:    "Backend",
			Sources:     cli.EnvVars("GRCBOARD_BACKEND_DEBUG"),
			Destination: &x.debug,
		},
	}
}

func (x Backend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.String("variant", x.variant),
		slog.Int("token.len", len(x.token)),
		slog.Duration("timeout", x.timeout),
		slog.String("industry", x.industry),
	)
}

// ApplyFile fills settings not given on the command line from the configuration file
func (x *Backend) ApplyFile(c *cli.Command, f *File) {
	fileDefault(c, "backend-url", &x.url, f.Backend.URL)
	fileDefault(c, "variant", &x.variant, f.Backend.Variant)
	fileDefault(c, "industry", &x.industry, f.Risk.Industry)
	if f.Backend.Timeout != "" && !c.IsSet("timeout") {
		if d, err := time.ParseDuration(f.Backend.Timeout); err == nil {
			x.timeout = d
		}
	}
}

// Industry returns the default industry for risk suggestions
func (x *Backend) Industry() string {
	return x.industry
}

// Configure creates the backend API client
func (x *Backend) Configure() (*grcapi.Client, error) {
	if x.url == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "backend URL is required", goerr.V(FlagKey, "backend-url"))
	}

	variant, err := types.ParseVariant(x.variant)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid variant",
			goerr.V(FlagKey, "variant"), goerr.V("variant", x.variant))
	}

	client, err := grcapi.New(x.url,
		grcapi.WithVariant(variant),
		grcapi.WithToken(x.token),
		grcapi.WithTimeout(x.timeout),
		grcapi.WithDebug(x.debug),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create backend client")
	}
	return client, nil
}
