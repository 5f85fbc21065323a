package grcapi

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// slogAdapter forwards resty's internal log lines to the default slog logger
type slogAdapter struct{}

var _ resty.Logger = slogAdapter{}

func (slogAdapter) Errorf(format string, v ...interface{}) {
	logging.Default().Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Warnf(format string, v ...interface{}) {
	logging.Default().Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Debugf(format string, v ...interface{}) {
	logging.Default().Debug(fmt.Sprintf(format, v...), "component", "resty")
}
