package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultEnvFile is read by LoadEnv when it exists
const DefaultEnvFile = ".env"

// LoadEnv exports the variables of the given dotenv files, DefaultEnvFile when none is given.
// A missing file is skipped and variables already present in the environment are kept.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return goerr.Wrap(err, "failed to load env file", goerr.V("path", p))
		}
	}
	return nil
}
