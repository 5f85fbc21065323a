package config

import (
	"github.com/secmon-lab/grcboard/pkg/service/evidence"
	"github.com/urfave/cli/v3"
)

// Storage configures where evidence files are read from
type Storage struct {
	credentials string
	maxSize     int
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account key file for reading gs:// evidence. Application default credentials are used otherwise",
			Category:    "Storage",
			Sources:     cli.EnvVars("GRCBOARD_GCS_CREDENTIALS"),
			Destination: &x.credentials,
		},
		&cli.IntFlag{
			Name:        "max-evidence-size",
			Usage:       "Largest evidence file accepted, in bytes",
			Category:    "Storage",
			Value:       int(evidence.DefaultMaxSize),
			Sources:     cli.EnvVars("GRCBOARD_MAX_EVIDENCE_SIZE"),
			Destination: &x.maxSize,
		},
	}
}

// MaxSize returns the evidence size limit
func (x *Storage) MaxSize() int64 {
	return int64(x.maxSize)
}

// Configure creates the evidence loader. The caller closes it.
func (x *Storage) Configure() *evidence.Loader {
	opts := []evidence.Option{evidence.WithMaxSize(x.MaxSize())}
	if x.credentials != "" {
		opts = append(opts, evidence.WithCredentialsFile(x.credentials))
	}
	return evidence.New(opts...)
}
