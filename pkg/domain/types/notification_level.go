package types

// NotificationLevel is the tone of a user-visible notification
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationError   NotificationLevel = "error"
)

// IsValid checks if the level is valid
func (l NotificationLevel) IsValid() bool {
	switch l {
	case NotificationSuccess, NotificationInfo, NotificationError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level
func (l NotificationLevel) String() string {
	return string(l)
}

// Emoji returns the Slack emoji code of the level
func (l NotificationLevel) Emoji() string {
	switch l {
	case NotificationSuccess:
		return ":white_check_mark:"
	case NotificationInfo:
		return ":information_source:"
	case NotificationError:
		return ":rotating_light:"
	default:
		return ":grey_question:"
	}
}

// AllNotificationLevels returns all valid levels
func AllNotificationLevels() []NotificationLevel {
	return []NotificationLevel{NotificationSuccess, NotificationInfo, NotificationError}
}

// ParseNotificationLevel parses a string into a NotificationLevel
func ParseNotificationLevel(s string) (NotificationLevel, error) {
	return parseEnum("notification level", s, NotificationLevel.IsValid)
}
