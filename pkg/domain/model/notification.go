package model

import (
	"time"

	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Notification is a short-lived user-visible message. It never carries error details.
type Notification struct {
	Level   types.NotificationLevel `json:"level"`
	Message string                  `json:"message"`
	At      time.Time               `json:"at"`
}

// Success builds a success notification
func Success(msg string) Notification {
	return Notification{Level: types.NotificationSuccess, Message: msg, At: time.Now().UTC()}
}

// Info builds an informational notification
func Info(msg string) Notification {
	return Notification{Level: types.NotificationInfo, Message: msg, At: time.Now().UTC()}
}

// Failure builds an error notification
func Failure(msg string) Notification {
	return Notification{Level: types.NotificationError, Message: msg, At: time.Now().UTC()}
}
