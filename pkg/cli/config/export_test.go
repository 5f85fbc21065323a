package config

import (
	"io"
	"log/slog"
	"time"
)

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewBackendForTest creates a Backend config for testing purposes
func NewBackendForTest(url, variant, token string, timeout time.Duration) *Backend {
	return &Backend{
		url:     url,
		variant: variant,
		token:   token,
		timeout: timeout,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(webhookURL, botToken, channelID string, levels ...string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		botToken:   botToken,
		channelID:  channelID,
		levels:     levels,
	}
}

// NewNotifyForTest creates a Notify config for testing purposes
func NewNotifyForTest(console bool, historySize int, slack *Slack) *Notify {
	n := &Notify{console: console, noColor: true, recorderSize: historySize}
	if slack != nil {
		n.Slack = *slack
	}
	return n
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(credentials string, maxSize int) *Storage {
	return &Storage{credentials: credentials, maxSize: maxSize}
}

func NewLogHandlerForTest(w io.Writer, format string) slog.Handler {
	return newLogHandler(w, format, slog.LevelDebug)
}
