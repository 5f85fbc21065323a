package config

import (
	"errors"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// File is the optional TOML configuration. Its values are defaults: a flag or environment
// variable set explicitly always wins.
//
//	[backend]
//	url = "https://grc.example.com"
//	variant = "enterprise"
//	timeout = "30s"
//
//	[risk]
//	industry = "Healthcare"
//
//	[slack]
//	webhook_url = "https://hooks.slack.com/services/..."
//	levels = ["error"]
type File struct {
	Backend BackendSection `toml:"backend"`
	Risk    RiskSection    `toml:"risk"`
	Slack   SlackSection   `toml:"slack"`
}

type BackendSection struct {
	URL     string `toml:"url"`
	Variant string `toml:"variant"`
	Timeout string `toml:"timeout"`
}

type RiskSection struct {
	Industry string `toml:"industry"`
}

type SlackSection struct {
	WebhookURL string   `toml:"webhook_url" masq:"secret"`
	Channel    string   `toml:"channel"`
	Title      string   `toml:"title"`
	Levels     []string `toml:"levels"`
}

// Validate checks values that have a restricted form
func (f *File) Validate() error {
	if f.Backend.Variant != "" {
		if _, err := types.ParseVariant(f.Backend.Variant); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid backend.variant", goerr.V("variant", f.Backend.Variant))
		}
	}
	if f.Backend.Timeout != "" {
		if _, err := time.ParseDuration(f.Backend.Timeout); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid backend.timeout", goerr.V("timeout", f.Backend.Timeout))
		}
	}
	for _, l := range f.Slack.Levels {
		if _, err := types.ParseNotificationLevel(l); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid slack.levels", goerr.V("level", l))
		}
	}
	return nil
}

// LoadFile reads and validates a TOML configuration file
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "no such config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var f File
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse config file",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}
	if err := f.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config file validation failed", goerr.V(ConfigPathKey, path))
	}
	return &f, nil
}

// FileFlag holds the --config path
type FileFlag struct {
	path string
}

func (x *FileFlag) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML configuration file",
			Sources:     cli.EnvVars("GRCBOARD_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Load reads the configuration file. Without --config an empty File is returned.
func (x *FileFlag) Load() (*File, error) {
	if x.path == "" {
		return &File{}, nil
	}
	return LoadFile(x.path)
}

// fileDefault assigns value to dst unless the flag was set explicitly or value is empty
func fileDefault(c *cli.Command, flag string, dst *string, value string) {
	if value == "" || c.IsSet(flag) {
		return
	}
	*dst = value
}
